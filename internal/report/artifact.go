package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Renderer writes a document into dir. base is the file name without
// extension; the returned path includes the extension the renderer chose.
type Renderer interface {
	Render(doc Document, dir, base string) (string, error)
}

// ArtifactBase returns "<Company_Name>_<YYYYMMDD_HHMM>".
func ArtifactBase(company string, at time.Time) string {
	return SafeName(company) + "_" + at.Format("20060102_1504")
}

// SafeName folds company to an ASCII file name component: accents are
// stripped, spaces become underscores and anything else outside
// [A-Za-z0-9._-] is dropped.
func SafeName(company string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(company),
	)
	if err != nil {
		folded = company
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r == ' ' || r == '/' || r == '\\':
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.'):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "company"
	}
	return b.String()
}

// WritePlaceholder writes error_<Company_Name>.txt into dir describing why
// rendering failed, and returns its path. The path is returned even when
// writing fails.
func WritePlaceholder(dir, company string, cause error) (string, error) {
	path := filepath.Join(dir, "error_"+SafeName(company)+".txt")

	body := fmt.Sprintf("Report rendering failed for %s.\n", company)
	if cause != nil {
		body += "Error: " + cause.Error() + "\n"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, eris.Wrap(err, "report: create output dir")
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return path, eris.Wrap(err, "report: write placeholder")
	}
	return path, nil
}
