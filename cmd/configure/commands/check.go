package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/benvon/clinic-edge/internal/config"
	"github.com/benvon/clinic-edge/internal/database"
	"github.com/benvon/clinic-edge/internal/handlers"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	var (
		baseURL string
		checkDB bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe a running edge instance",
		Long:  "Call /healthz?mode=extended on a running instance and report each dependency. With --database, also ping DATABASE_URL directly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if baseURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				baseURL = "http://localhost" + cfg.Addr()
			}

			if checkDB {
				if err := checkDatabase(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "✓ Database is reachable")
			}

			target := strings.TrimRight(baseURL, "/") + "/healthz?mode=extended"
			fmt.Fprintf(out, "Checking %s\n", target)

			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(target)
			if err != nil {
				return fmt.Errorf("failed to reach health endpoint: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
				}
			}()

			var health handlers.HealthResponse
			if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
				return fmt.Errorf("decode health response: %w", err)
			}

			names := make([]string, 0, len(health.Checks))
			for name := range health.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %-10s %s\n", name, health.Checks[name])
			}

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("instance is %s (status %d)", health.Status, resp.StatusCode)
			}
			fmt.Fprintf(out, "✓ Instance is %s\n", health.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "Base URL of the instance (default http://localhost:$SERVER_PORT)")
	cmd.Flags().BoolVar(&checkDB, "database", false, "Also ping DATABASE_URL directly")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP timeout")

	return cmd
}

func checkDatabase(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()
	return db.Ping(ctx)
}
