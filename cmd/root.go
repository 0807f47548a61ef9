package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	synccmd "desksync/cmd/sync"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "desksync",
	Short: "Client-resident sync layer for support tickets, chat, and appointments.",
	Long: `Desksync keeps an in-memory collection of support tickets, chat transcripts,
and appointment workflows consistent with a remote relational store whose exact
schema is discovered at runtime.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(synccmd.NewSyncCommand())
}
