package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send a notice to the configured report recipients",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sink, err := initSink(cfg)
		if err != nil {
			return err
		}

		subject, _ := cmd.Flags().GetString("subject")
		message, _ := cmd.Flags().GetString("message")
		if !sink.SendNotification(cmd.Context(), subject, message) {
			return eris.New("notification not delivered")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Notification sent.")
		return nil
	},
}

func init() {
	notifyCmd.Flags().String("subject", "Test notification", "message subject")
	notifyCmd.Flags().String("message", "The diligence pipeline can reach its mail server.", "message body")
	rootCmd.AddCommand(notifyCmd)
}
