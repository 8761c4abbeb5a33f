// Package cli implements bookingctl, a terminal front end to the booking
// flow: print a seat map, book tickets interactively and list a user's
// bookings.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bookingctl",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "bookingctl v0.1")
	},
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Cinema ticket booking CLI",
		Long:          `Browse seat maps, book tickets and list your bookings from the terminal.`,
		SilenceUsage:  true,
	}
	root.AddCommand(newSeatMapCmd(), newBookCmd(), newBookingsCmd(), versionCmd)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
