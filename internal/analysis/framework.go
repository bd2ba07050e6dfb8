package analysis

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed default_framework.md
var defaultFramework string

// DefaultFramework returns the built-in framework document.
func DefaultFramework() string { return defaultFramework }

// LoadFramework reads the framework document at path. An empty path, a
// missing file or an empty file yields the built-in default. Other read
// errors are returned.
func LoadFramework(path string) (string, error) {
	if path == "" {
		return defaultFramework, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Info("analysis: framework file not found, using built-in default", zap.String("path", path))
			return defaultFramework, nil
		}
		return "", eris.Wrapf(err, "analysis: read framework %s", path)
	}
	if strings.TrimSpace(string(b)) == "" {
		return defaultFramework, nil
	}
	return string(b), nil
}
