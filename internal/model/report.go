package model

import "time"

// RawData embeds the inputs a report was built from, for audit.
type RawData struct {
	Research *Dossier  `json:"research"`
	Analysis *Analysis `json:"web3_analysis"`
}

// Report is the terminal output of a diligence run.
type Report struct {
	CompanyName              string         `json:"company_name"`
	GeneratedAt              time.Time      `json:"generated_at"`
	ExecutiveSummary         string         `json:"executive_summary"`
	InvestmentRecommendation Recommendation `json:"investment_recommendation"`
	KeyFindings              []string       `json:"key_findings"`
	Risks                    []string       `json:"risks"`
	Opportunities            []string       `json:"opportunities"`
	NextSteps                []string       `json:"next_steps"`
	Scoring                  Scorecard      `json:"scoring"`
	RawData                  RawData        `json:"raw_data"`
	ArtifactPath             string         `json:"pdf_path"`
}
