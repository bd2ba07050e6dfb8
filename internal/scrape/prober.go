// Package scrape probes company websites for descriptive text.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/model"
)

const (
	// DefaultUserAgent identifies the probe as a desktop browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	maxBodyBytes   = 2 << 20
	minAboutLength = 50
	maxAboutLength = 1000
	fallbackParas  = 5
	matchesPerRule = 3
)

// aboutSelectors are tried in order; the first whose text is long enough wins.
var aboutSelectors = []string{
	`section[class*="about"]`,
	`div[class*="about"]`,
	`.hero-content`,
	`.hero-text`,
	`main p`,
	`.description`,
}

// Prober fetches a company's public website and extracts descriptive text.
// Failures never escape Probe: they are returned as an error marker.
type Prober struct {
	client    *http.Client
	userAgent string
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ProberOption {
	return func(p *Prober) { p.client = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ProberOption {
	return func(p *Prober) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// NewProber creates a Prober whose requests are bounded by timeout.
func NewProber(timeout time.Duration, opts ...ProberOption) *Prober {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
		userAgent: DefaultUserAgent,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Probe fetches url and extracts the title, meta description and about text.
func (p *Prober) Probe(ctx context.Context, url string) model.WebsiteInfo {
	target := NormalizeURL(url)
	info, err := p.probe(ctx, target)
	if err != nil {
		zap.L().Warn("scrape: website probe failed", zap.String("url", target), zap.Error(err))
		return model.WebsiteInfo{URL: url, Error: err.Error()}
	}
	return info
}

func (p *Prober) probe(ctx context.Context, url string) (model.WebsiteInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.WebsiteInfo{}, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return model.WebsiteInfo{}, eris.Wrap(err, "scrape: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.WebsiteInfo{}, eris.Wrap(err, "scrape: read body")
	}

	if block := DetectBlock(resp, body); block != BlockNone {
		return model.WebsiteInfo{}, eris.Errorf("scrape: blocked (%s)", block)
	}
	if resp.StatusCode >= 400 {
		return model.WebsiteInfo{}, eris.Errorf("scrape: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.WebsiteInfo{}, eris.Wrap(err, "scrape: parse html")
	}

	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return model.WebsiteInfo{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: strings.TrimSpace(desc),
		About:       ExtractAbout(doc),
		URL:         url,
	}, nil
}

// ExtractAbout returns the first selector match whose combined text is longer
// than 50 characters, else the first five paragraphs, truncated to 1000
// characters.
func ExtractAbout(doc *goquery.Document) string {
	for _, sel := range aboutSelectors {
		matches := doc.Find(sel)
		if matches.Length() == 0 {
			continue
		}
		text := joinText(matches, matchesPerRule)
		if len([]rune(text)) > minAboutLength {
			return truncate(text, maxAboutLength)
		}
	}

	paras := doc.Find("p")
	if paras.Length() == 0 {
		return ""
	}
	return truncate(joinText(paras, fallbackParas), maxAboutLength)
}

func joinText(sel *goquery.Selection, limit int) string {
	parts := make([]string, 0, limit)
	sel.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		parts = append(parts, strings.TrimSpace(s.Text()))
		return true
	})
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// NormalizeURL adds an https scheme to bare hosts.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return fmt.Sprintf("https://%s", raw)
}
