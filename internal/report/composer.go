// Package report turns a researched and analyzed company into a diligence
// report and renders it to a file artifact.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/enrich"
	"github.com/sells-group/diligence-cli/internal/model"
)

// promptExcerpt caps each JSON blob embedded in a prompt.
const promptExcerpt = 1500

// Composer builds reports.
type Composer struct {
	oracle    enrich.Oracle
	renderer  Renderer
	outputDir string
	now       func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock overrides the time source used for GeneratedAt and file names.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// New creates a Composer that writes artifacts into outputDir.
func New(oracle enrich.Oracle, renderer Renderer, outputDir string, opts ...Option) *Composer {
	c := &Composer{
		oracle:    oracle,
		renderer:  renderer,
		outputDir: outputDir,
		now:       time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compose generates the executive summary and structured findings, then
// renders the artifact. Model and render failures are folded into the
// report; the error return is reserved for a cancelled ctx.
func (c *Composer) Compose(ctx context.Context, co model.Company, d *model.Dossier, an *model.Analysis) (*model.Report, error) {
	log := zap.L().With(zap.String("company", co.Name), zap.String("external_id", co.ExternalID))

	r := &model.Report{
		CompanyName: co.Name,
		GeneratedAt: c.now(),
		RawData:     model.RawData{Research: d, Analysis: an},
	}
	if an != nil {
		r.Scoring = an.Scorecard
	}

	research := excerpt(d)
	analysis := excerpt(an)

	r.ExecutiveSummary = c.summary(ctx, co, research, analysis)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "report: executive summary")
	}

	f := c.findings(ctx, co, research, analysis)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "report: findings")
	}
	r.InvestmentRecommendation = f.recommendation
	r.KeyFindings = f.keyFindings
	r.Risks = f.risks
	r.Opportunities = f.opportunities
	r.NextSteps = f.nextSteps

	r.ArtifactPath = c.render(r)
	log.Info("report: composed",
		zap.String("recommendation", string(r.InvestmentRecommendation)),
		zap.String("artifact", r.ArtifactPath),
	)
	return r, nil
}

func (c *Composer) summary(ctx context.Context, co model.Company, research, analysis string) string {
	text, err := c.oracle.Complete(ctx, enrich.Prompt{
		User:        summaryPrompt(co, research, analysis),
		Temperature: enrich.Temp(0.2),
		MaxTokens:   800,
	})
	if err != nil {
		zap.L().Warn("report: executive summary failed", zap.String("company", co.Name), zap.Error(err))
		return fmt.Sprintf("Executive summary generation failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return "Executive summary generation failed: empty response"
	}
	return strings.TrimSpace(text)
}

type findings struct {
	recommendation model.Recommendation
	keyFindings    []string
	risks          []string
	opportunities  []string
	nextSteps      []string
}

func failedFindings(reason string) findings {
	return findings{
		recommendation: model.RecommendationMonitor,
		keyFindings:    []string{"Analysis generation failed: " + reason},
		risks:          []string{"Unable to assess risks due to analysis error"},
		opportunities:  []string{"Unable to assess opportunities due to analysis error"},
		nextSteps:      []string{"Manual review required"},
	}
}

func (c *Composer) findings(ctx context.Context, co model.Company, research, analysis string) findings {
	res := enrich.CompleteStructured(ctx, c.oracle, enrich.Prompt{
		User:        findingsPrompt(co, research, analysis),
		Temperature: enrich.Temp(0.1),
		MaxTokens:   1000,
	})
	switch res.Kind {
	case enrich.Failed:
		return failedFindings(res.Err.Error())
	case enrich.Unstructured:
		return failedFindings("response was not valid JSON")
	}

	f := findings{
		recommendation: model.ParseRecommendation(stringValue(res.Value["investment_recommendation"])),
		keyFindings:    stringList(res.Value["key_findings"]),
		risks:          stringList(res.Value["risks"]),
		opportunities:  stringList(res.Value["opportunities"]),
		nextSteps:      stringList(res.Value["next_steps"]),
	}
	if len(f.keyFindings) == 0 {
		return failedFindings("response had no key findings")
	}
	return f
}

// render writes the artifact, falling back to a placeholder file.
func (c *Composer) render(r *model.Report) string {
	base := ArtifactBase(r.CompanyName, r.GeneratedAt)

	err := os.MkdirAll(c.outputDir, 0o755)
	if err == nil {
		var path string
		path, err = c.renderer.Render(Layout(r), c.outputDir, base)
		if err == nil {
			return path
		}
	}
	zap.L().Error("report: render failed, writing placeholder", zap.String("company", r.CompanyName), zap.Error(err))

	path, perr := WritePlaceholder(c.outputDir, r.CompanyName, err)
	if perr != nil {
		zap.L().Error("report: placeholder failed", zap.String("company", r.CompanyName), zap.Error(perr))
	}
	return path
}

func excerpt(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	s := []rune(string(b))
	if len(s) > promptExcerpt {
		s = s[:promptExcerpt]
	}
	return string(s)
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// stringList accepts a list of strings, a list of objects, or a single
// string.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range t {
			switch it := item.(type) {
			case string:
				if s := strings.TrimSpace(it); s != "" {
					out = append(out, s)
				}
			case nil:
			default:
				b, err := json.Marshal(it)
				if err == nil {
					out = append(out, string(b))
				}
			}
		}
	}
	return out
}

func summaryPrompt(co model.Company, research, analysis string) string {
	return fmt.Sprintf(`Generate a concise executive summary (3-4 paragraphs) for this investment opportunity:

Company: %s
Website: %s
Industry: %s

Research Summary: %s
Web3 Analysis: %s

Include:
1. What the company does
2. Key strengths and market opportunity
3. Investment highlights
4. Primary concerns or risks
5. Clear recommendation (Go/No-Go/Monitor)

Keep it executive-friendly and focused on investment decision-making.`, co.Name, co.Website, co.Industry, research, analysis)
}

func findingsPrompt(co model.Company, research, analysis string) string {
	return fmt.Sprintf(`Based on the research data, provide structured analysis for investment decision:

Company: %s
Research: %s
Web3 Analysis: %s

Provide JSON response with:
{
  "investment_recommendation": "Go/No-Go/Monitor",
  "key_findings": ["Finding 1", "Finding 2", "Finding 3"],
  "risks": ["Risk 1", "Risk 2", "Risk 3"],
  "opportunities": ["Opportunity 1", "Opportunity 2", "Opportunity 3"],
  "next_steps": ["Next step 1", "Next step 2"]
}`, co.Name, research, analysis)
}
