package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/diligence-cli/internal/model"
	"github.com/sells-group/diligence-cli/internal/records"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect deal records in the record store",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records by diligence status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := initStore(cfg)
		if err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		return listRecords(cmd.Context(), st, model.DiligenceStatus(status), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// listRecords prints the records with the given status to out, or a notice to
// errOut when there are none.
func listRecords(ctx context.Context, st records.Store, status model.DiligenceStatus, out, errOut io.Writer) error {
	recs, err := st.ListByStatus(ctx, status)
	if err != nil {
		return eris.Wrap(err, "records list")
	}

	if len(recs) == 0 {
		_, _ = fmt.Fprintln(errOut, "No records found.")
		return nil
	}

	formatRecordsList(out, recs)
	return nil
}

func init() {
	recordsListCmd.Flags().String("status", string(model.DiligencePending), "diligence status (Pending, In Progress, Complete, Failed)")
	recordsCmd.AddCommand(recordsListCmd)
	rootCmd.AddCommand(recordsCmd)
}

// formatRecordsList writes a tabular list of records to out.
func formatRecordsList(out io.Writer, recs []records.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "EXTERNAL_ID\tCOMPANY\tSTAGE\tSTATUS\tRECOMMENDATION\tUPDATED")
	_, _ = fmt.Fprintln(w, "-----------\t-------\t-----\t------\t--------------\t-------")

	for _, r := range recs {
		company := field(r, model.FieldCompanyName)
		if len(company) > 30 {
			company = company[:27] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ExternalID(),
			company,
			field(r, model.FieldStage),
			field(r, model.FieldDiligenceStatus),
			field(r, model.FieldAIRecommendation),
			field(r, model.FieldLastUpdated),
		)
	}
	_ = w.Flush()
}

func field(r records.Record, name string) string {
	switch v := r.Fields[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02 15:04")
	default:
		return fmt.Sprint(v)
	}
}
