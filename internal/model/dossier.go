package model

// WebsiteInfo is what the website probe extracted from a company's site.
// Exactly one of the content fields or Error is meaningful.
type WebsiteInfo struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	About       string `json:"about,omitempty"`
	URL         string `json:"url"`
	Error       string `json:"error,omitempty"`
}

// Failed reports whether the probe produced an error marker instead of content.
func (w WebsiteInfo) Failed() bool { return w.Error != "" }

// Dossier is the raw research bundle gathered before analysis. It is built
// once per run and read-only afterwards.
type Dossier struct {
	CompanyName    string         `json:"company_name"`
	Website        string         `json:"website"`
	BasicInfo      WebsiteInfo    `json:"basic_info"`
	TeamInfo       map[string]any `json:"team_info"`
	MarketInfo     map[string]any `json:"market_info"`
	NewsMentions   []any          `json:"news_mentions"`
	SocialPresence map[string]any `json:"social_presence"`
	Funding        any            `json:"funding,omitempty"`
	Partnerships   any            `json:"partnerships,omitempty"`
}
