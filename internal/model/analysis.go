package model

import "strings"

// Category is the Web3 focus area a company is classified into.
type Category string

const (
	CategoryDeFi           Category = "DeFi"
	CategoryNFT            Category = "NFT"
	CategoryDAO            Category = "DAO"
	CategoryInfrastructure Category = "Infrastructure"
	CategoryGameFi         Category = "GameFi"
	CategorySocial         Category = "Social"
	CategoryTrading        Category = "Trading"
	CategoryOther          Category = "Other"
)

// Categories lists the classifiable categories in match priority order.
// Other is the default and is intentionally absent.
var Categories = []Category{
	CategoryDeFi,
	CategoryNFT,
	CategoryDAO,
	CategoryInfrastructure,
	CategoryGameFi,
	CategorySocial,
	CategoryTrading,
}

// ParseCategory maps free text onto a Category, defaulting to Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Recommendation is the investment call for a company.
type Recommendation string

const (
	RecommendationGo      Recommendation = "Go"
	RecommendationNoGo    Recommendation = "No-Go"
	RecommendationMonitor Recommendation = "Monitor"
)

// ParseRecommendation normalizes model output such as "no go" or "GO" onto
// the enumeration. Anything unrecognized is Monitor.
func ParseRecommendation(s string) Recommendation {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "go":
		return RecommendationGo
	case "no-go", "nogo":
		return RecommendationNoGo
	default:
		return RecommendationMonitor
	}
}

// NeutralScore is the score used whenever a score cannot be determined.
const NeutralScore = 5.0

// Scorecard is the eight-axis investment rubric on a 1-10 scale. A zero axis
// means the axis was not scored. RegulatoryScore is inverted relative to the
// other axes: 10 means the lowest regulatory risk.
type Scorecard struct {
	TeamScore        float64        `json:"team_score"`
	TechScore        float64        `json:"tech_score"`
	MarketScore      float64        `json:"market_score"`
	TokenomicsScore  float64        `json:"tokenomics_score"`
	TractionScore    float64        `json:"traction_score"`
	RegulatoryScore  float64        `json:"regulatory_score"`
	CompetitiveScore float64        `json:"competitive_score"`
	FitScore         float64        `json:"fit_score"`
	Overall          float64        `json:"overall_score"`
	Recommendation   Recommendation `json:"investment_recommendation"`
	Error            string         `json:"error,omitempty"`
}

// Axes returns the eight axis scores in rubric order.
func (s Scorecard) Axes() []float64 {
	return []float64{
		s.TeamScore,
		s.TechScore,
		s.MarketScore,
		s.TokenomicsScore,
		s.TractionScore,
		s.RegulatoryScore,
		s.CompetitiveScore,
		s.FitScore,
	}
}

// Mean returns the average of the eight axes and whether all eight were scored.
func (s Scorecard) Mean() (float64, bool) {
	var sum float64
	for _, v := range s.Axes() {
		if v <= 0 {
			return 0, false
		}
		sum += v
	}
	return sum / 8, true
}

// FallbackScorecard is the neutral scorecard used when scoring fails.
func FallbackScorecard(err error) Scorecard {
	sc := Scorecard{
		Overall:        NeutralScore,
		Recommendation: RecommendationMonitor,
	}
	if err != nil {
		sc.Error = err.Error()
	}
	return sc
}

// Analysis is the Web3 classification of a company plus its scorecard.
type Analysis struct {
	Category       Category       `json:"category"`
	Recommendation Recommendation `json:"recommendation"`
	Narrative      string         `json:"web3_analysis"`
	Sections       map[string]any `json:"sections,omitempty"`
	Structured     bool           `json:"structured"`
	Scorecard      Scorecard      `json:"framework_score"`
}
