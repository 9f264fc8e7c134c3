package commands

import (
	"fmt"

	"github.com/benvon/clinic-edge/internal/app"
	"github.com/benvon/clinic-edge/internal/config"
	"github.com/benvon/clinic-edge/internal/routes"
	"github.com/spf13/cobra"
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List routes served behind the edge pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			api := routes.New()
			edge, err := app.New(cfg, app.Deps{API: api})
			if err != nil {
				return fmt.Errorf("build pipeline: %w", err)
			}
			list, err := edge.Routes()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "API modules:")
			for _, m := range api.Modules() {
				fmt.Fprintf(out, "  %s%s\n", routes.Prefix, m.Path)
			}
			fmt.Fprintln(out, "Routes:")
			for _, r := range list {
				fmt.Fprintf(out, "  %s\n", r)
			}
			fmt.Fprintln(out, "  OPTIONS    * (preflight, answered before routing)")
			return nil
		},
	}
}
