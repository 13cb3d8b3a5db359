package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/forem/forem-sub028/internal/model"
	"github.com/forem/forem-sub028/internal/redisclient"
	"github.com/forem/forem-sub028/internal/storage"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the fixture format: content items, viewer follow graphs, and
// an optional pinned id.
type seedFile struct {
	Items []struct {
		ID             string    `yaml:"id"`
		Title          string    `yaml:"title"`
		Path           string    `yaml:"path"`
		AuthorID       string    `yaml:"author_id"`
		AuthorName     string    `yaml:"author_name"`
		OrganizationID string    `yaml:"organization_id"`
		Tags           []string  `yaml:"tags"`
		Hotness        float64   `yaml:"hotness"`
		CommentCount   int       `yaml:"comment_count"`
		ReactionCount  int       `yaml:"reaction_count"`
		Published      *bool     `yaml:"published"`
		Approved       *bool     `yaml:"approved"`
		CoverImageURL  string    `yaml:"cover_image_url"`
		VideoURL       string    `yaml:"video_url"`
		PublishedAt    time.Time `yaml:"published_at"`
	} `yaml:"items"`
	Viewers []struct {
		ID             string             `yaml:"id"`
		FollowedUsers  []string           `yaml:"followed_users"`
		FollowedTags   map[string]float64 `yaml:"followed_tags"`
		FollowedOrgs   []string           `yaml:"followed_orgs"`
		BlockedAuthors []string           `yaml:"blocked_authors"`
	} `yaml:"viewers"`
	Pinned string `yaml:"pinned"`
}

// seedCmd loads a YAML fixture into redis for local runs and demos.
var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load content and follow-graph fixtures into Redis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var sf seedFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return fmt.Errorf("parse fixture: %w", err)
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, raw := range sf.Items {
			it := model.ContentItem{
				ID:             raw.ID,
				Title:          raw.Title,
				Path:           raw.Path,
				AuthorID:       raw.AuthorID,
				AuthorName:     raw.AuthorName,
				OrganizationID: raw.OrganizationID,
				Tags:           raw.Tags,
				Hotness:        raw.Hotness,
				CommentCount:   raw.CommentCount,
				ReactionCount:  raw.ReactionCount,
				Published:      raw.Published == nil || *raw.Published,
				Approved:       raw.Approved == nil || *raw.Approved,
				CoverImageURL:  raw.CoverImageURL,
				VideoURL:       raw.VideoURL,
				PublishedAt:    raw.PublishedAt,
			}
			if it.ID == "" {
				return fmt.Errorf("fixture item without id")
			}
			if err := store.UpsertItem(ctx, it); err != nil {
				return fmt.Errorf("store item %s: %w", it.ID, err)
			}
		}

		for _, v := range sf.Viewers {
			if v.ID == "" {
				return fmt.Errorf("fixture viewer without id")
			}
			g := model.FollowGraph{
				FollowedUsers:  v.FollowedUsers,
				FollowedTags:   v.FollowedTags,
				FollowedOrgs:   v.FollowedOrgs,
				BlockedAuthors: v.BlockedAuthors,
			}
			if err := store.SaveFollowGraph(ctx, v.ID, g); err != nil {
				return fmt.Errorf("store viewer %s: %w", v.ID, err)
			}
		}

		if sf.Pinned != "" {
			if err := store.SetPinned(ctx, sf.Pinned); err != nil {
				return fmt.Errorf("set pinned: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items, %d viewers\n", len(sf.Items), len(sf.Viewers))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
