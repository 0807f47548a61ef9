package sync

import "github.com/spf13/cobra"

func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync layer commands",
	}

	cmd.AddCommand(NewStartCommand())
	cmd.AddCommand(NewProbeCommand())

	return cmd
}
