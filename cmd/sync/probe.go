package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"desksync/config"
	"desksync/internal/capability"
	"desksync/internal/remote"
	"desksync/pkg/logs"
)

// NewProbeCommand negotiates capabilities against the configured store and
// prints the result, without starting the sync loop. Useful when onboarding
// a new deployment whose schema shape is unknown.
func NewProbeCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Negotiate schema capabilities and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}

			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}
			slog.SetDefault(logs.New(cfg))

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.APIKey,
				remote.WithHTTPClient(&http.Client{Timeout: timeout}),
			)
			caps := capability.NewProber(client).Resolve(ctx)

			out, err := json.MarshalIndent(caps, "", "  ")
			if err != nil {
				return fmt.Errorf("encode capabilities: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall probe timeout")

	return cmd
}
