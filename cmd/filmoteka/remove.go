package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [flags] [title]...",
	Short: "Remove titles from the catalog",
	Long: `Remove titles from the catalog.

Deletes matching titles from both the catalog and the manual list and
clears their scan cooldown. Title matching is a case-insensitive
substring match.

Examples:
  filmoteka remove "matrix"
  filmoteka remove --tmdb 603`,
	RunE: runRemoveCmd,
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().Int64("tmdb", 0, "TMDB id of the title")
}

func runRemoveCmd(cmd *cobra.Command, args []string) error {
	tmdbID, _ := cmd.Flags().GetInt64("tmdb")
	title := strings.Join(args, " ")
	if tmdbID == 0 && title == "" {
		return fmt.Errorf("either a title or --tmdb is required")
	}

	r, err := newRunner()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	result, err := r.Remove(tmdbID, title)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	if result.Movies == 0 && result.Series == 0 {
		fmt.Println("No matching titles")
		return nil
	}
	fmt.Printf("Removed %d movies, %d series\n", result.Movies, result.Series)
	return nil
}
