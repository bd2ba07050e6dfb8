// Package analysis classifies a researched company against the Web3
// investment framework and scores it on the eight-axis rubric.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/enrich"
	"github.com/sells-group/diligence-cli/internal/model"
)

// Analyzer runs the classification and scoring calls.
type Analyzer struct {
	oracle    enrich.Oracle
	framework string
}

// New creates an Analyzer. An empty framework uses the built-in default.
func New(oracle enrich.Oracle, framework string) *Analyzer {
	if strings.TrimSpace(framework) == "" {
		framework = defaultFramework
	}
	return &Analyzer{oracle: oracle, framework: framework}
}

// Analyze classifies the company and scores it. Model failures are folded
// into the returned analysis; the error return is reserved for a cancelled
// ctx.
func (a *Analyzer) Analyze(ctx context.Context, c model.Company, d *model.Dossier) (*model.Analysis, error) {
	log := zap.L().With(zap.String("company", c.Name), zap.String("external_id", c.ExternalID))
	start := time.Now()

	res := enrich.CompleteStructured(ctx, a.oracle, enrich.Prompt{
		System:      classifySystem(a.framework),
		User:        classifyPrompt(c, d),
		Temperature: enrich.Temp(0.2),
		MaxTokens:   2000,
	})
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "analysis: classify")
	}

	an := classify(res)
	log.Info("analysis: classified",
		zap.Stringer("result", res.Kind),
		zap.String("category", string(an.Category)),
		zap.String("recommendation", string(an.Recommendation)),
	)

	if res.Kind == enrich.Failed {
		an.Scorecard = model.FallbackScorecard(res.Err)
		return an, nil
	}

	an.Scorecard = a.score(ctx, c, an)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "analysis: score")
	}

	log.Info("analysis: scored",
		zap.Float64("overall", an.Scorecard.Overall),
		zap.String("recommendation", string(an.Scorecard.Recommendation)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return an, nil
}

func classify(res enrich.Result) *model.Analysis {
	switch res.Kind {
	case enrich.Failed:
		return &model.Analysis{
			Category:       model.CategoryOther,
			Recommendation: model.RecommendationMonitor,
			Narrative:      fmt.Sprintf("Web3 analysis failed: %v", res.Err),
		}
	case enrich.Unstructured:
		return &model.Analysis{
			Category:       ExtractCategory(res.Raw),
			Recommendation: ExtractRecommendation(res.Raw),
			Narrative:      res.Raw,
		}
	}

	an := &model.Analysis{
		Narrative:  res.Raw,
		Sections:   res.Value,
		Structured: true,
	}

	if s := lookupString(res.Value, "category", "web3_category", "web3_category_classification"); s != "" {
		an.Category = ExtractCategory(s)
	} else {
		an.Category = ExtractCategory(res.Raw)
	}

	if s := lookupString(res.Value, "recommendation", "investment_recommendation"); s != "" {
		an.Recommendation = recommendationFrom(s)
	} else {
		an.Recommendation = ExtractRecommendation(res.Raw)
	}
	return an
}

func (a *Analyzer) score(ctx context.Context, c model.Company, an *model.Analysis) model.Scorecard {
	text, err := a.oracle.Complete(ctx, enrich.Prompt{
		User:        scoringPrompt(c, an),
		Temperature: enrich.Temp(0.1),
		MaxTokens:   1000,
	})
	if err != nil {
		zap.L().Warn("analysis: scoring call failed", zap.String("company", c.Name), zap.Error(err))
		return model.FallbackScorecard(err)
	}

	sc, err := ParseScorecard(text)
	if err != nil {
		zap.L().Warn("analysis: scoring response unusable", zap.String("company", c.Name), zap.Error(err))
		return model.FallbackScorecard(err)
	}
	return sc
}

// ExtractCategory returns the first category named in text, case-insensitive,
// in the order of model.Categories. It defaults to Other.
func ExtractCategory(text string) model.Category {
	lower := strings.ToLower(text)
	for _, c := range model.Categories {
		if strings.Contains(lower, strings.ToLower(string(c))) {
			return c
		}
	}
	return model.CategoryOther
}

// ExtractRecommendation derives a recommendation from free text by keyword.
func ExtractRecommendation(text string) model.Recommendation {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "strong buy"), strings.Contains(lower, "highly recommend"):
		return model.RecommendationGo
	case strings.Contains(lower, "avoid"), strings.Contains(lower, "pass"), strings.Contains(lower, "high risk"):
		return model.RecommendationNoGo
	default:
		return model.RecommendationMonitor
	}
}

// recommendationFrom accepts an explicit enum value and falls back to the
// keyword scan for anything else.
func recommendationFrom(s string) model.Recommendation {
	if r := model.ParseRecommendation(s); r != model.RecommendationMonitor {
		return r
	}
	if strings.EqualFold(strings.TrimSpace(s), string(model.RecommendationMonitor)) {
		return model.RecommendationMonitor
	}
	return ExtractRecommendation(s)
}

// lookupString finds the first of keys in v whose value is a string, or a
// nested object carrying one.
func lookupString(v map[string]any, keys ...string) string {
	for _, k := range keys {
		for vk, val := range v {
			if !strings.EqualFold(vk, k) {
				continue
			}
			if s := stringIn(val, 2); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringIn(v any, depth int) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if depth == 0 {
			return ""
		}
		for _, k := range []string{"category", "primary", "classification", "recommendation", "value", "decision"} {
			if s := stringIn(t[k], depth-1); s != "" {
				return s
			}
		}
	case []any:
		if len(t) > 0 {
			return stringIn(t[0], depth)
		}
	}
	return ""
}

func classifySystem(framework string) string {
	return "You are a Web3 investment analyst. Analyze companies using the following framework:\n\n" + framework
}

func classifyPrompt(c model.Company, d *model.Dossier) string {
	research, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		research = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("Company Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", c.Name)
	fmt.Fprintf(&b, "- Website: %s\n", c.Website)
	fmt.Fprintf(&b, "- Industry: %s\n", c.Industry)
	if c.OneLiner != "" {
		fmt.Fprintf(&b, "- One-liner: %s\n", c.OneLiner)
	}
	fmt.Fprintf(&b, "- Description: %s\n\n", c.Description)
	b.WriteString("Research Data:\n")
	b.Write(research)
	b.WriteString(`

Provide a comprehensive Web3-focused analysis including:
1. Web3 Category Classification: which focus area does this fit?
2. Token Analysis: does it have tokens? Tokenomics assessment
3. Technology Stack: blockchain and protocol analysis
4. Competitive Landscape: similar Web3 projects
5. Metrics Evaluation: key Web3 metrics and traction
6. Risk Assessment: Web3-specific risks (regulatory, technical, etc.)
7. Investment Thesis: why this could be a good or bad Web3 investment

Format as structured JSON with clear sections. Include a "category" key set
to one of DeFi, NFT, DAO, Infrastructure, GameFi, Social, Trading, Other and a
"recommendation" key set to one of Go, No-Go, Monitor.`)
	return b.String()
}

func scoringPrompt(c model.Company, an *model.Analysis) string {
	body := map[string]any{
		"category":       an.Category,
		"recommendation": an.Recommendation,
	}
	if an.Structured {
		body["sections"] = an.Sections
	} else {
		body["web3_analysis"] = an.Narrative
	}
	analysis, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		analysis = []byte("{}")
	}

	return fmt.Sprintf(`Score this Web3 company against our investment framework on a scale of 1-10:

Company: %s
Analysis: %s

Score these areas (1-10):
1. Team Quality & Experience
2. Technology Innovation
3. Market Opportunity Size
4. Tokenomics & Business Model
5. Traction & Community
6. Regulatory Risk (10 = low risk)
7. Competitive Position
8. Investment Fit (our thesis alignment)

Provide scores as JSON: {"team_score": X, "tech_score": X, "market_score": X, "tokenomics_score": X, "traction_score": X, "regulatory_score": X, "competitive_score": X, "fit_score": X}
Also include overall_score (average) and investment_recommendation ("Go", "No-Go", "Monitor")`, c.Name, analysis)
}
