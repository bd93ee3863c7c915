package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pocketkitti/companion/internal/vibe"
)

var vibesCmd = &cobra.Command{
	Use:   "vibes",
	Short: "Review your mood history",
}

var vibesHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List analyzed sessions, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		history := vibe.New(backend).History(context.Background())
		if len(history) == 0 {
			fmt.Println("No sessions yet. Try `kitti chat`!")
			return
		}

		for _, r := range history {
			ts := time.UnixMilli(r.Timestamp).Format("Jan 02 15:04")
			fmt.Printf("%s  %3d/100  %-12s %s\n", ts, r.Score, r.Label, r.Summary)
		}
	},
}

var vibesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show this week's average and trend",
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		stats := vibe.New(backend).WeeklyStats(context.Background())
		if len(stats.Trend) == 0 {
			fmt.Println("Nothing in the last week. Your pet misses you. 🐾")
			return
		}

		fmt.Printf("Weekly average: %d/100\n\n", stats.Average)
		for i, score := range stats.Trend {
			bar := strings.Repeat("█", score/5)
			fmt.Printf("%d  %-20s %d\n", i+1, bar, score)
		}
	},
}

func init() {
	RootCmd.AddCommand(vibesCmd)
	vibesCmd.AddCommand(vibesHistoryCmd)
	vibesCmd.AddCommand(vibesStatsCmd)
}
