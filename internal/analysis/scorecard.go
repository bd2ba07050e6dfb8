package analysis

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/diligence-cli/internal/enrich"
	"github.com/sells-group/diligence-cli/internal/model"
)

// ParseScorecard reads a scoring response. Scores may be numbers or numeric
// strings such as "7" or "7/10"; scores outside 1-10 count as unscored. When
// all eight axes are present the overall is recomputed as their mean,
// otherwise the model's overall_score is kept, or the neutral score when the
// model gave partial axes but no overall. A response with no usable score is
// an error.
func ParseScorecard(text string) (model.Scorecard, error) {
	res := enrich.ParseStructured(text)
	if res.Kind != enrich.Structured {
		return model.Scorecard{}, eris.New("analysis: scoring response is not a JSON object")
	}
	v := res.Value

	sc := model.Scorecard{
		TeamScore:        axis(v, "team_score"),
		TechScore:        axis(v, "tech_score"),
		MarketScore:      axis(v, "market_score"),
		TokenomicsScore:  axis(v, "tokenomics_score"),
		TractionScore:    axis(v, "traction_score"),
		RegulatoryScore:  axis(v, "regulatory_score"),
		CompetitiveScore: axis(v, "competitive_score"),
		FitScore:         axis(v, "fit_score"),
	}

	if mean, ok := sc.Mean(); ok {
		sc.Overall = mean
	} else {
		sc.Overall = axis(v, "overall_score")
	}
	if sc.Overall == 0 && anyAxis(sc) {
		sc.Overall = model.NeutralScore
	}
	if sc.Overall == 0 {
		return model.Scorecard{}, eris.New("analysis: scoring response has no usable scores")
	}

	rec, _ := v["investment_recommendation"].(string)
	if rec == "" {
		rec, _ = v["recommendation"].(string)
	}
	sc.Recommendation = model.ParseRecommendation(rec)

	return sc, nil
}

func anyAxis(sc model.Scorecard) bool {
	for _, a := range []float64{
		sc.TeamScore, sc.TechScore, sc.MarketScore, sc.TokenomicsScore,
		sc.TractionScore, sc.RegulatoryScore, sc.CompetitiveScore, sc.FitScore,
	} {
		if a != 0 {
			return true
		}
	}
	return false
}

func axis(v map[string]any, key string) float64 {
	n, ok := number(v[key])
	if !ok || n < 1 || n > 10 {
		return 0
	}
	return n
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if i := strings.Index(s, "/"); i >= 0 {
			s = strings.TrimSpace(s[:i])
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
