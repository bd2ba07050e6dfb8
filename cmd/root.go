package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/diligence-cli/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "diligence-cli",
	Short:   "AI investment diligence pipeline",
	Long:    "Researches a company, classifies and scores it against a Web3 investment framework, renders a PDF report and mirrors progress onto the deal record in the CRM.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
