package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pvondra/filmoteka/internal/runner"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] [title]...",
	Short: "Add a title to the catalog manually",
	Long: `Add a title to the catalog manually.

Manually added titles survive every sweep: they are re-applied to the
catalog after each batch refresh. The title is resolved by TMDB id or
by a title search; --link pins one specific file instead of running a
full search.

Examples:
  filmoteka add "The Matrix"
  filmoteka add --tmdb 603
  filmoteka add --kind series "Dark"
  filmoteka add "Dark" --link https://webshare.cz/#/file/abc123 --season 1 --episode 1`,
	RunE: runAddCmd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().Int64("tmdb", 0, "TMDB id of the title")
	addCmd.Flags().String("kind", "", "Content kind (movie or series, default auto)")
	addCmd.Flags().String("link", "", "Share link of a specific file to attach")
	addCmd.Flags().Int("season", 0, "Season for --link on a series")
	addCmd.Flags().Int("episode", 0, "Episode for --link on a series")
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	tmdbID, _ := cmd.Flags().GetInt64("tmdb")
	kind, _ := cmd.Flags().GetString("kind")
	link, _ := cmd.Flags().GetString("link")
	season, _ := cmd.Flags().GetInt("season")
	episode, _ := cmd.Flags().GetInt("episode")

	title := strings.Join(args, " ")
	if tmdbID == 0 && title == "" {
		return fmt.Errorf("either a title or --tmdb is required")
	}

	r, err := newRunner()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	name, err := r.Add(cmd.Context(), runner.AddOptions{
		TMDBID:  tmdbID,
		Title:   title,
		Kind:    kind,
		Link:    link,
		Season:  season,
		Episode: episode,
	})
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	fmt.Printf("Added %q to the catalog\n", name)
	return nil
}
