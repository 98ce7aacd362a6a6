package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/byceps/announce/id"
	"github.com/byceps/announce/webhook"
)

var webhooksCmd = &cobra.Command{
	Use:   "webhooks",
	Short: "Inspect and test webhooks",
}

var webhooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the webhooks of the directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, a, _, err := setup()
		if err != nil {
			return err
		}
		defer a.Store().Close()

		whs, err := a.Webhooks().List(cmd.Context(), webhook.ListOpts{})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFORMAT\tENABLED\tEVENTS\tURL")
		for _, wh := range whs {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n",
				wh.ID, wh.Format, wh.Enabled, strings.Join(wh.EventTypes, ","), wh.URL)
		}
		return w.Flush()
	},
}

var webhooksTestCmd = &cobra.Command{
	Use:   "test <webhook-id>",
	Short: "Send the test announcement to a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		whID, err := id.ParseWebhookID(args[0])
		if err != nil {
			return err
		}

		_, a, _, err := setup()
		if err != nil {
			return err
		}
		defer a.Store().Close()

		res, err := a.Test(cmd.Context(), whID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "accepted with status %d in %d ms\n", res.StatusCode, res.LatencyMs)
		return nil
	},
}

func init() {
	webhooksCmd.AddCommand(webhooksListCmd, webhooksTestCmd)
}
