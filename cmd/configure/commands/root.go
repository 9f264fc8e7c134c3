package commands

import "github.com/spf13/cobra"

// NewRootCmd assembles the operator CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "clinic-edge-configure",
		Short:         "Operator tool for the clinic HTTP edge",
		Long:          "Inspect and validate edge configuration, list routes, and probe a running instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewRoutesCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewRatelimitCmd())

	return rootCmd
}
