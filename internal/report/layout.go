package report

import (
	"fmt"

	"github.com/sells-group/diligence-cli/internal/model"
)

// BlockKind identifies how a block is drawn.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockHeading
	BlockSubheading
	BlockParagraph
	BlockBullet
	BlockBadge
	BlockTable
	BlockSpacer
)

// Color is an RGB triple.
type Color struct{ R, G, B int }

var (
	ColorGo      = Color{0, 128, 0}
	ColorNoGo    = Color{200, 0, 0}
	ColorMonitor = Color{255, 140, 0}
)

// Table is a header row plus body rows. When BoldLastRow is set the final
// row is emphasized.
type Table struct {
	Header      []string
	Rows        [][]string
	BoldLastRow bool
}

// Block is one element of a rendered document.
type Block struct {
	Kind  BlockKind
	Text  string
	Color Color
	Table *Table
}

// Document is a renderer-independent report layout.
type Document struct {
	Title  string
	Blocks []Block
}

// Layout builds the document for r in reading order.
func Layout(r *model.Report) Document {
	doc := Document{Title: "Investment Diligence Report - " + r.CompanyName}
	add := func(b ...Block) { doc.Blocks = append(doc.Blocks, b...) }
	spacer := Block{Kind: BlockSpacer}

	add(
		Block{Kind: BlockTitle, Text: "Investment Diligence Report"},
		Block{Kind: BlockHeading, Text: r.CompanyName},
		Block{Kind: BlockParagraph, Text: "Generated: " + r.GeneratedAt.Format("2006-01-02 15:04:05")},
		spacer,
		Block{Kind: BlockHeading, Text: "Executive Summary"},
		Block{Kind: BlockParagraph, Text: r.ExecutiveSummary},
		spacer,
		Block{Kind: BlockHeading, Text: "Investment Recommendation"},
		Block{Kind: BlockBadge, Text: string(recommendationOf(r)), Color: BadgeColor(recommendationOf(r))},
		spacer,
	)

	bullets := func(heading string, items []string) {
		add(Block{Kind: BlockHeading, Text: heading})
		for _, it := range items {
			add(Block{Kind: BlockBullet, Text: it})
		}
		add(spacer)
	}
	bullets("Key Findings", r.KeyFindings)
	bullets("Key Risks", r.Risks)
	bullets("Opportunities", r.Opportunities)

	if r.Scoring.Overall > 0 {
		add(
			Block{Kind: BlockHeading, Text: "Framework Scoring"},
			Block{Kind: BlockTable, Table: ScoreTable(r.Scoring)},
			spacer,
		)
	}

	add(Block{Kind: BlockHeading, Text: "Next Steps"})
	for _, s := range r.NextSteps {
		add(Block{Kind: BlockBullet, Text: s})
	}
	return doc
}

func recommendationOf(r *model.Report) model.Recommendation {
	if r.InvestmentRecommendation == "" {
		return model.RecommendationMonitor
	}
	return r.InvestmentRecommendation
}

// BadgeColor is green for Go, red for No-Go and orange otherwise.
func BadgeColor(rec model.Recommendation) Color {
	switch rec {
	case model.RecommendationGo:
		return ColorGo
	case model.RecommendationNoGo:
		return ColorNoGo
	default:
		return ColorMonitor
	}
}

// ScoreTable lists the eight axes followed by the overall score.
func ScoreTable(sc model.Scorecard) *Table {
	labels := []string{
		"Team Quality",
		"Technology",
		"Market Opportunity",
		"Tokenomics & Business Model",
		"Traction & Community",
		"Regulatory Risk (10 = lowest risk)",
		"Competitive Position",
		"Investment Fit",
	}

	t := &Table{Header: []string{"Metric", "Score (1-10)"}, BoldLastRow: true}
	for i, v := range sc.Axes() {
		t.Rows = append(t.Rows, []string{labels[i], formatScore(v)})
	}
	t.Rows = append(t.Rows, []string{"Overall Score", formatScore(sc.Overall)})
	return t
}

func formatScore(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", v)
}
