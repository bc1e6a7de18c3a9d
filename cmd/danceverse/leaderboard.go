package main

import (
	"fmt"
	"io"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/spf13/cobra"
)

func newLeaderboardCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top dancers",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := e.client.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			renderLeaderboard(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func renderLeaderboard(w io.Writer, entries []domain.LeaderboardEntry) {
	fmt.Fprintln(w, "🏆 Leaderboard")
	if len(entries) == 0 {
		fmt.Fprintln(w, "No rankings yet.")
		return
	}
	for i, entry := range entries {
		rank := i + 1
		label := domain.Medal(rank)
		if label == "" {
			label = fmt.Sprintf("#%d", rank)
		}
		fmt.Fprintf(w, "%-4s %-24s %6d pts\n", label, entry.DancerName, entry.Score)
	}
}
