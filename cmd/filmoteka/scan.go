package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pvondra/filmoteka/internal/runner"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sweep popular titles into the catalog",
	Long: `Sweep popular titles into the catalog.

Walks the popular movie and TV listings, resolves each title against
the file index and merges the results into the catalog. Titles
resolved recently are skipped until their cooldown expires.

Examples:
  filmoteka scan
  filmoteka scan --max-movies 50 --max-series 20
  filmoteka scan --new-only`,
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Int("max-movies", 0, "Movie batch size (0 = configured default)")
	scanCmd.Flags().Int("max-series", 0, "Series batch size (0 = configured default)")
	scanCmd.Flags().Bool("new-only", false, "Only look for new episodes of known series")
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	maxMovies, _ := cmd.Flags().GetInt("max-movies")
	maxSeries, _ := cmd.Flags().GetInt("max-series")
	newOnly, _ := cmd.Flags().GetBool("new-only")

	r, err := newRunner()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := r.Sweep(ctx, runner.SweepOptions{
		MaxMovies: maxMovies,
		MaxSeries: maxSeries,
		NewOnly:   newOnly,
	})
	if summary != nil {
		fmt.Printf("Resolved %d movies, %d series (%d new streams)\n",
			summary.MoviesResolved, summary.SeriesResolved, summary.NewStreams)
		fmt.Printf("Skipped %d recently scanned, %d without matches\n",
			summary.Skipped, summary.NoMatch)
	}
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}
