package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/byceps/announce/assembly"
)

var namesCmd = &cobra.Command{
	Use:   "names [pattern]",
	Short: "List the registered event names",
	Long: `List the registered event names.

A pattern may end in a wildcard, e.g. "board-*" or "shop-order-*".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := assembly.NewRegistry()
		if err != nil {
			return err
		}

		names := reg.KnownNames()
		if len(args) == 1 {
			names = reg.Names(args[0])
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
