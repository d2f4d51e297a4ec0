package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/ursjoin"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ursjoin",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "ursjoin version %s\n", ursjoin.Version)
		},
	}
}
