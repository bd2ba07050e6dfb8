package scrape

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	big := "<html><body>" + strings.Repeat("<p>We build DeFi rails.</p>", 500) +
		`<form><div class="g-recaptcha"></div></form></body></html>`

	tests := []struct {
		name   string
		status int
		header http.Header
		body   string
		want   BlockType
	}{
		{"cloudflare_ray", 403, http.Header{"Cf-Ray": {"abc"}}, "", BlockCloudflare},
		{"cloudflare_server", 503, http.Header{"Server": {"Cloudflare"}}, "", BlockCloudflare},
		{"browser_check", 200, http.Header{}, "<title>Just a moment...</title>Checking your browser", BlockCloudflare},
		{"captcha_widget_untitled", 200, http.Header{}, `<html><div class="h-captcha" data-sitekey="k"></div></html>`, BlockCaptcha},
		{"recaptcha_widget_untitled", 200, http.Header{}, `<html><form><div class="g-recaptcha"></div></form></html>`, BlockCaptcha},
		{"small_titled_page_with_recaptcha", 200, http.Header{}, `<html><title>Acme</title><form><div class="g-recaptcha"></div></form></html>`, BlockNone},
		{"captcha_word_only", 200, http.Header{}, "<html><p>We never show you a captcha.</p></html>", BlockNone},
		{"js_shell", 200, http.Header{}, `<html><noscript>Please enable JavaScript</noscript><div id="root"></div></html>`, BlockJSShell},
		{"large_page_with_recaptcha", 200, http.Header{}, big, BlockNone},
		{"normal", 200, http.Header{}, "<html><body><p>Acme</p></body></html>", BlockNone},
		{"forbidden_without_cf", 403, http.Header{}, "denied", BlockNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Header: tt.header}
			assert.Equal(t, tt.want, DetectBlock(resp, []byte(tt.body)))
		})
	}
}

func TestDetectBlock_NilResponse(t *testing.T) {
	assert.Equal(t, BlockNone, DetectBlock(nil, []byte("captcha")))
}
