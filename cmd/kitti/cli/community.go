package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pocketkitti/companion/internal/community"
)

var communityCmd = &cobra.Command{
	Use:   "community",
	Short: "The anonymous support feed",
}

var communityFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the feed",
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		for _, p := range community.New(backend).Posts(context.Background()) {
			ts := time.UnixMilli(p.Timestamp).Format("Jan 02")
			fmt.Printf("[%s] %s · %s · ❤ %d (id %s)\n  %s\n", ts, p.Author, p.Tag, p.Hearts, p.ID, p.Content)
			for _, r := range p.Replies {
				fmt.Printf("    ↳ %s: %s\n", r.Author, r.Content)
			}
		}
	},
}

var communityPostCmd = &cobra.Command{
	Use:   "post [text]",
	Short: "Share something with the feed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		ctx := context.Background()
		feed := community.New(backend)

		post, err := feed.AddPost(ctx, args[0])
		if err != nil {
			fmt.Printf("Failed to post: %v\n", err)
			return
		}
		fmt.Printf("Posted as %s (id %s).\n", post.Author, post.ID)

		// The demo magic: someone always answers.
		reply, err := feed.AppendGhostReply(ctx, post.ID)
		if err == nil && reply.ID != "" {
			fmt.Printf("New reply from %s: %s\n", reply.Author, reply.Content)
		}
	},
}

var communityHeartCmd = &cobra.Command{
	Use:   "heart [post-id]",
	Short: "Send a heart to a post",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend()
		defer backend.Close()

		if err := community.New(backend).Heart(context.Background(), args[0]); err != nil {
			fmt.Printf("Failed to heart: %v\n", err)
			return
		}
		fmt.Println("❤")
	},
}

func init() {
	RootCmd.AddCommand(communityCmd)
	communityCmd.AddCommand(communityFeedCmd)
	communityCmd.AddCommand(communityPostCmd)
	communityCmd.AddCommand(communityHeartCmd)
}
