package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pvondra/filmoteka/pkg/mediainfo"
)

var pickCmd = &cobra.Command{
	Use:   "pick [flags] <title>...",
	Short: "Rank a title's streams and resolve a playback link",
	Long: `Rank a title's streams and resolve a playback link.

Scores every known stream of a cataloged title against the configured
preferences and resolves a direct download link for the best one. For
series, --season and --episode select the episode.

Examples:
  filmoteka pick "The Matrix"
  filmoteka pick "Dark" --season 1 --episode 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPickCmd,
}

func init() {
	rootCmd.AddCommand(pickCmd)
	pickCmd.Flags().IntP("season", "s", 0, "Season number")
	pickCmd.Flags().IntP("episode", "e", 0, "Episode number")
}

func runPickCmd(cmd *cobra.Command, args []string) error {
	season, _ := cmd.Flags().GetInt("season")
	episode, _ := cmd.Flags().GetInt("episode")
	query := strings.Join(args, " ")

	r, err := newRunner()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	pick, err := r.PickStream(cmd.Context(), query, season, episode)
	if err != nil {
		return fmt.Errorf("pick: %w", err)
	}

	fmt.Printf("%d streams for %s:\n\n", len(pick.Ranked), pick.Title)
	fmt.Printf("  # │ %-48s │ %8s │ %5s\n", "FILE", "SIZE", "SCORE")
	fmt.Println("────┼──────────────────────────────────────────────────┼──────────┼───────")
	for i, rs := range pick.Ranked {
		name := rs.Stream.Filename
		if len(name) > 48 {
			name = name[:45] + "..."
		}
		fmt.Printf(" %2d │ %-48s │ %8s │ %5.0f\n",
			i+1, name, formatSize(rs.Stream.Size), rs.Score)
		if badges := buildBadges(rs.Info); badges != "" {
			fmt.Printf("    │ %s\n", badges)
		}
	}

	fmt.Printf("\nBest: %s\n", pick.Best.Filename)
	fmt.Printf("Link: %s\n", pick.Link)
	return nil
}

func buildBadges(info mediainfo.Info) string {
	var badges []string
	if info.Quality != mediainfo.QualityUnknown {
		badges = append(badges, "["+info.Quality.String()+"]")
	}
	if info.Source != mediainfo.SourceUnknown {
		badges = append(badges, "["+info.Source.String()+"]")
	}
	if info.AudioChannels != "" {
		badges = append(badges, "["+info.AudioChannels+"]")
	}
	if codec := info.AudioCodec.String(); codec != "" {
		badges = append(badges, "["+codec+"]")
	}
	if info.HDR {
		badges = append(badges, "[HDR]")
	}
	if len(info.Languages) > 0 {
		badges = append(badges, "["+strings.Join(info.Languages, "/")+"]")
	}
	return strings.Join(badges, " ")
}
