package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/pipeline"
)

var (
	runFile    string
	runCompany model.Company
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run diligence for a single company and wait for the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		company, err := resolveCompany(runFile, runCompany)
		if err != nil {
			return err
		}

		env, err := initPipeline(cfg)
		if err != nil {
			return err
		}

		out := env.Pipeline.Run(cmd.Context(), company)
		if err := writeOutcome(cmd.OutOrStdout(), out); err != nil {
			return err
		}
		if out.Err != nil {
			return eris.Wrap(out.Err, "diligence run")
		}
		return nil
	},
}

// resolveCompany merges the optional YAML file with flag values. Flags win.
func resolveCompany(path string, flags model.Company) (model.Company, error) {
	var c model.Company
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, eris.Wrap(err, "read company file")
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, eris.Wrap(err, "parse company file")
		}
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&c.Name, flags.Name)
	override(&c.Website, flags.Website)
	override(&c.ExternalID, flags.ExternalID)
	override(&c.Industry, flags.Industry)
	override(&c.OneLiner, flags.OneLiner)
	override(&c.Description, flags.Description)

	if missing := c.Missing(); len(missing) > 0 {
		return c, eris.Errorf("missing required company fields: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

type runOutput struct {
	RunID  string        `json:"run_id"`
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
	Report *model.Report `json:"report,omitempty"`
}

func writeOutcome(w io.Writer, out pipeline.Outcome) error {
	o := runOutput{RunID: out.RunID, Status: string(out.Status), Report: out.Report}
	if out.Err != nil {
		o.Error = out.Err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "YAML file describing the company")
	runCmd.Flags().StringVar(&runCompany.Name, "name", "", "company name")
	runCmd.Flags().StringVar(&runCompany.Website, "website", "", "company website URL")
	runCmd.Flags().StringVar(&runCompany.ExternalID, "external-id", "", "record store external ID")
	runCmd.Flags().StringVar(&runCompany.Industry, "industry", "", "industry")
	runCmd.Flags().StringVar(&runCompany.OneLiner, "one-liner", "", "short pitch")
	runCmd.Flags().StringVar(&runCompany.Description, "description", "", "long description")
	rootCmd.AddCommand(runCmd)
}
