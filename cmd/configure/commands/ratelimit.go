package commands

import (
	"fmt"
	"strings"

	"github.com/benvon/clinic-edge/internal/config"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
)

// NewRatelimitCmd creates the ratelimit command with show and test subcommands.
func NewRatelimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Inspect rate limit configuration",
		Long:  "Show the configured /api/v1 rate limit or check a rate string (e.g. 5-S, 100-M, 1000-H).",
	}
	cmd.AddCommand(newRatelimitShowCmd())
	cmd.AddCommand(newRatelimitTestCmd())
	return cmd
}

func newRatelimitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured rate limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if cfg.RateLimit == "" {
				fmt.Fprintln(out, "Rate limiting is disabled. Set RATE_LIMIT to enable it.")
				return nil
			}
			return describeRate(cmd, cfg.RateLimit)
		},
	}
}

func newRatelimitTestCmd() *cobra.Command {
	var rate string
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check that a rate string is valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			rate = strings.TrimSpace(rate)
			if rate == "" {
				return fmt.Errorf("--rate is required (e.g. 5-S, 100-M)")
			}
			return describeRate(cmd, rate)
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "Rate (e.g. 5-S, 100-M, 1000-H) (required)")
	return cmd
}

func describeRate(cmd *cobra.Command, formatted string) error {
	r, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", formatted, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rate %s: %d requests per %s per client IP\n", r.Formatted, r.Limit, r.Period)
	return nil
}
