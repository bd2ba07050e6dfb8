package scrape

import (
	"net/http"
	"strings"
)

// BlockType names the anti-bot wall a page was served instead of content.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// challengePageMax bounds the size of pages treated as interstitials. Real
// marketing pages often embed reCAPTCHA on a contact form; only a small,
// untitled page that is mostly the challenge widget counts as a block.
const challengePageMax = 8 * 1024

var captchaMarkers = []string{"g-recaptcha", "h-captcha", "cf-turnstile"}

// DetectBlock reports whether resp/body is an anti-bot interstitial rather
// than the company's page.
func DetectBlock(resp *http.Response, body []byte) BlockType {
	if resp == nil {
		return BlockNone
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "checking your browser") || strings.Contains(lower, "cf-browser-verification") {
		return BlockCloudflare
	}

	if len(body) > challengePageMax {
		return BlockNone
	}

	if !strings.Contains(lower, "<title") && containsAny(lower, captchaMarkers) {
		return BlockCaptcha
	}
	if strings.Contains(lower, "<noscript") && strings.Contains(lower, "enable javascript") {
		return BlockJSShell
	}
	return BlockNone
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
