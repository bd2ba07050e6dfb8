// Package research builds the research dossier for a company from its
// website and language model enrichment.
package research

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/enrich"
	"github.com/sells-group/diligence-cli/internal/model"
)

// WebsiteProber fetches a company's site. It must not fail; errors are
// reported through WebsiteInfo.Error.
type WebsiteProber interface {
	Probe(ctx context.Context, url string) model.WebsiteInfo
}

// Researcher composes the website probe with two enrichment calls.
type Researcher struct {
	prober WebsiteProber
	oracle enrich.Oracle
}

// New creates a Researcher.
func New(prober WebsiteProber, oracle enrich.Oracle) *Researcher {
	return &Researcher{prober: prober, oracle: oracle}
}

// Research gathers the dossier for c. Each of the three sources is
// failure-isolated: a failing source leaves an error marker in its slot and
// the others still run. The error return is reserved for a cancelled ctx.
func (r *Researcher) Research(ctx context.Context, c model.Company) (*model.Dossier, error) {
	log := zap.L().With(zap.String("company", c.Name), zap.String("external_id", c.ExternalID))

	d := &model.Dossier{
		CompanyName:    c.Name,
		Website:        c.Website,
		TeamInfo:       map[string]any{},
		MarketInfo:     map[string]any{},
		NewsMentions:   []any{},
		SocialPresence: map[string]any{},
	}

	start := time.Now()
	d.BasicInfo = r.probe(ctx, c.Website)
	log.Info("research: website probed",
		zap.Bool("failed", d.BasicInfo.Failed()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "research: website")
	}

	search := enrich.CompleteStructured(ctx, r.oracle, enrich.Prompt{
		User:        searchPrompt(c.Name),
		Temperature: enrich.Temp(0.1),
	})
	applySearch(d, search)
	log.Info("research: market search done", zap.Stringer("result", search.Kind))
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "research: market search")
	}

	team := enrich.CompleteStructured(ctx, r.oracle, enrich.Prompt{
		User:        teamPrompt(c.Name),
		Temperature: enrich.Temp(0.1),
	})
	d.TeamInfo = team.Map()
	log.Info("research: team research done", zap.Stringer("result", team.Kind))
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "research: team")
	}

	return d, nil
}

// probe runs the prober, turning a panic into an error marker so a broken
// prober cannot abort the run.
func (r *Researcher) probe(ctx context.Context, url string) (info model.WebsiteInfo) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("research: website prober panicked", zap.Any("panic", rec))
			info = model.WebsiteInfo{URL: url, Error: fmt.Sprintf("website probe panicked: %v", rec)}
		}
	}()
	return r.prober.Probe(ctx, url)
}

// applySearch spreads the search answer across the dossier. An answer that
// is not JSON, or a failed call, lands in MarketInfo so it stays visible.
func applySearch(d *model.Dossier, res enrich.Result) {
	if res.Kind != enrich.Structured {
		d.MarketInfo = res.Map()
		return
	}

	switch news := res.Value["news"].(type) {
	case []any:
		d.NewsMentions = news
	case nil:
	default:
		d.NewsMentions = []any{news}
	}

	switch market := res.Value["market"].(type) {
	case map[string]any:
		d.MarketInfo = market
	case nil:
	default:
		d.MarketInfo = map[string]any{"summary": market}
	}

	d.Funding = res.Value["funding"]
	d.Partnerships = res.Value["partnerships"]
}

func searchPrompt(name string) string {
	return fmt.Sprintf(`Research the company "%s" and provide a structured summary including:
1. Recent news and press mentions
2. Market position and competitors
3. Funding history if available
4. Key partnerships or customers

Format as JSON with keys: news, market, funding, partnerships`, name)
}

func teamPrompt(name string) string {
	return fmt.Sprintf(`Research the founding team and key executives of "%s".
Focus on:
1. Founder backgrounds and experience
2. Previous companies or exits
3. Educational background
4. Relevant industry experience

Format as JSON with founder details.`, name)
}
