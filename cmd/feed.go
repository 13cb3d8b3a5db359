package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/forem/forem-sub028/internal/feed"
	"github.com/forem/forem-sub028/internal/model"
	"github.com/forem/forem-sub028/internal/redisclient"
	"github.com/forem/forem-sub028/internal/storage"

	"github.com/spf13/cobra"
)

var (
	feedViewer    string
	feedTag       string
	feedTimeframe string
	feedPage      int
	feedPerPage   int
	feedSeed      int64
)

// feedCmd resolves one page exactly as the HTTP handler would and prints
// it as JSON. Useful for inspecting ranking behavior against seeded data.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Resolve and print one feed page",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		tf, err := model.ParseTimeframe(feedTimeframe)
		if err != nil {
			return fmt.Errorf("%w: %v", feed.ErrInvalidParameter, err)
		}
		upstreamTimeout, err := time.ParseDuration(cfg.Feed.UpstreamTimeout)
		if err != nil {
			return fmt.Errorf("invalid upstream_timeout: %w", err)
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		svc := &feed.Service{
			Repo:            storage.NewRedisStore(rdb),
			Config:          cfg.Feed,
			UpstreamTimeout: upstreamTimeout,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		page, err := svc.Resolve(ctx, feed.Query{
			ViewerID:  feedViewer,
			Tag:       feedTag,
			Timeframe: tf,
			Page:      feedPage,
			PerPage:   feedPerPage,
			Seed:      feedSeed,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedViewer, "viewer", "", "viewer id (empty for anonymous)")
	feedCmd.Flags().StringVar(&feedTag, "tag", "", "tag filter")
	feedCmd.Flags().StringVar(&feedTimeframe, "timeframe", "", "day|week|month|year|infinity|latest")
	feedCmd.Flags().IntVar(&feedPage, "page", 1, "page number")
	feedCmd.Flags().IntVar(&feedPerPage, "per-page", 0, "page size (0 uses the configured default)")
	feedCmd.Flags().Int64Var(&feedSeed, "seed", 0, "jitter seed (0 derives one)")
	rootCmd.AddCommand(feedCmd)
}
