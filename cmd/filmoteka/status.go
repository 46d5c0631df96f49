package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog statistics",
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	r, err := newRunner()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	stats, err := r.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	fmt.Printf("Movies:   %d (%d files)\n", stats.MoviesCount, stats.TotalMovieFiles)
	fmt.Printf("Series:   %d (%d episodes)\n", stats.SeriesCount, stats.TotalEpisodes)
	if !stats.LastUpdated.IsZero() {
		fmt.Printf("Updated:  %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return nil
}
