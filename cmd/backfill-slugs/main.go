// cmd/backfill-slugs/main.go
//
// backfill-slugs assigns a slug to every product stored without one. Run it
// once against a database created before product slugs existed, before the
// server builds its unique slug index.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const envPrefix = "STRATASITE_"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		mongoURI string
		database string
		dryRun   bool
		timeout  time.Duration
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "backfill-slugs",
		Short: "Assign slugs to products that have none",
		Long: `Assign a slug, derived from the project name, to every product whose slug
is missing or empty. Taken slugs get a -1, -2, ... suffix.

Connection settings default to STRATASITE_MONGO_URI and
STRATASITE_MONGO_DATABASE.

Examples:
  backfill-slugs --dry-run
  backfill-slugs --mongo-uri mongodb://db:27017 --database stratasite
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := zap.NewNop()
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
				defer func() { _ = logger.Sync() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			if err := wafflemongo.ValidateURI(mongoURI); err != nil {
				return fmt.Errorf("invalid MongoDB URI: %w", err)
			}
			client, err := wafflemongo.ConnectWithPool(ctx, mongoURI, database, wafflemongo.DefaultPoolConfig())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			sum, err := backfill(ctx, client.Database(database), dryRun, logger)
			printSummary(cmd, sum, dryRun)
			return err
		},
	}

	cmd.Flags().StringVar(&mongoURI, "mongo-uri", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	cmd.Flags().StringVar(&database, "database", envOr("MONGO_DATABASE", "stratasite"), "MongoDB database name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the slugs that would be assigned without writing")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each product")

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func printSummary(cmd *cobra.Command, sum summary, dryRun bool) {
	out := cmd.OutOrStdout()
	verb := "updated"
	if dryRun {
		verb = "would update"
	}
	for _, a := range sum.Assigned {
		fmt.Fprintf(out, "%s  %-40q -> %s\n", a.ID.Hex(), a.ProjectName, a.Slug)
	}
	for _, a := range sum.Skipped {
		fmt.Fprintf(out, "%s  %-40q skipped: no usable characters\n", a.ID.Hex(), a.ProjectName)
	}
	fmt.Fprintf(out, "scanned %d, %s %d, skipped %d\n", sum.Scanned, verb, len(sum.Assigned), len(sum.Skipped))
}
