package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pocketkitti/companion/internal/journal"
	"github.com/pocketkitti/companion/internal/prompts"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Browse and edit your journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		entries := journal.New(backend).GetAll(context.Background())
		if len(entries) == 0 {
			fmt.Println(prompts.Stable(prompts.EmptyChatPrompts, journal.DayKey(time.Now())))
			return
		}

		for _, e := range entries {
			fmt.Printf("%s  %-12s %3d/100  %s\n", e.ID, e.Mood, e.Score, firstLine(e.Content))
		}
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show [day]",
	Short: "Show one entry in full (day format: 2026-08-31, defaults to today)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		day := journal.DayKey(time.Now())
		if len(args) == 1 {
			day = args[0]
		}

		for _, e := range journal.New(backend).GetAll(context.Background()) {
			if e.ID == day {
				fmt.Printf("%s · %s · %d/100\n\n%s\n", e.Date, e.Mood, e.Score, e.Content)
				return
			}
		}
		fmt.Println("No entry for", day)
	},
}

var journalEditCmd = &cobra.Command{
	Use:   "edit [text]",
	Short: "Edit today's entry by hand",
	Long: `Replaces today's journal content with your own words. If today has no
entry yet, a fresh neutral one is created instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		ctx := context.Background()
		store := journal.New(backend)
		text := args[0]

		if today := store.TodayEntry(ctx); today != nil {
			if err := store.UpdateContent(ctx, today.ID, text); err != nil {
				fmt.Printf("Failed to update entry: %v\n", err)
				return
			}
			fmt.Println("Updated today's entry.")
			return
		}

		if err := store.SaveEntry(ctx, text, 50, "Neutral"); err != nil {
			fmt.Printf("Failed to create entry: %v\n", err)
			return
		}
		fmt.Println("Created today's entry.")
	},
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}

func init() {
	RootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalEditCmd)
}
