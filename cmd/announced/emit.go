package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/byceps/announce/api"
)

var emitCmd = &cobra.Command{
	Use:   "emit <event-name> <file>",
	Short: "Announce a single event read from a JSON file",
	Long: `Announce a single event read from a JSON file ("-" reads stdin).

Announcements scheduled for later are kept only as long as the store
keeps jobs; with the memory and file backends they are lost on exit.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]

		var (
			body []byte
			err  error
		)
		if path == "-" {
			body, err = io.ReadAll(cmd.InOrStdin())
		} else {
			body, err = os.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("read event: %w", err)
		}

		_, a, _, err := setup()
		if err != nil {
			return err
		}
		defer a.Store().Close()

		ev, err := api.DecodeEvent(a.Registry(), name, body)
		if err != nil {
			return err
		}

		if err := a.Announce(cmd.Context(), ev); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "announced %s\n", name)
		return nil
	},
}
