package main

import (
	"fmt"
	"io"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/Tetsu-is/danceverse/internal/feed"
	"github.com/Tetsu-is/danceverse/internal/media"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultTitle = "💃 Amazing Dance Performance! #DanceChallenge"

func newFeedCmd(e *env) *cobra.Command {
	var (
		active    int
		unfocused bool
		like      []int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the public video feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			videos, err := e.client.PublicVideos(cmd.Context())
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No videos yet. Be the first to upload one!")
				return nil
			}

			f := feed.New(len(videos), feed.WithPlayer(logPlayer{log: e.log}))
			defer f.Close()

			// --active scrolls item N fully into view.
			if active > 0 {
				f.OnViewableChanged([]feed.Visibility{{Index: active - 1, Fraction: 1}})
			}
			f.SetFocused(!unfocused)

			eng := feed.NewPlaceholderEngagement()
			for _, n := range like {
				if n >= 1 && n <= len(videos) {
					eng.ToggleLike(videos[n-1].ID)
				}
			}

			renderFeed(cmd.OutOrStdout(), videos, f, eng, e.log)
			return nil
		},
	}
	cmd.Flags().IntVar(&active, "active", 1, "Item (1-based) scrolled into view")
	cmd.Flags().BoolVar(&unfocused, "unfocused", false, "Render as if the feed screen lost focus")
	cmd.Flags().IntSliceVar(&like, "like", nil, "Items (1-based) to like locally")
	return cmd
}

func renderFeed(w io.Writer, videos []domain.Video, f *feed.Feed, eng *feed.PlaceholderEngagement, log *zap.Logger) {
	fmt.Fprintln(w, "💃 DanceVerse")
	for i, v := range videos {
		src := media.Resolve(v.URL)
		log.Debug("resolved video source",
			zap.String("id", v.ID),
			zap.Stringer("kind", src.Kind),
			zap.String("url", src.URL),
			zap.String("youtube_id", src.YouTubeID),
		)

		marker := "  "
		status := "⏸️ Paused"
		if f.IsPlaying(i) {
			marker = "▶ "
			status = "▶️ Playing"
		}

		title := v.Title
		if title == "" {
			title = defaultTitle
		}

		fmt.Fprintf(w, "\n%s[%d] @dancer_%s\n", marker, i+1, v.ID)
		fmt.Fprintf(w, "    %s\n", title)

		if err := src.Err(); err != nil {
			fmt.Fprintln(w, "    ⚠️ YouTube video cannot be embedded")
			fmt.Fprintln(w, "    Try using a direct video URL instead")
		} else {
			switch src.Kind {
			case media.KindYouTube:
				fmt.Fprintf(w, "    youtube  %s\n", media.EmbedURL(src.YouTubeID, f.IsPlaying(i)))
			default:
				fmt.Fprintf(w, "    video    %s\n", src.URL)
			}
			fmt.Fprintf(w, "    %s\n", status)
		}

		e := eng.For(v.ID)
		heart := "🤍"
		if e.Liked {
			heart = "❤️"
		}
		fmt.Fprintf(w, "    %s %s  💬 %s  🔗 %s\n",
			heart, feed.FormatCount(e.Likes), feed.FormatCount(e.Comments), feed.FormatCount(e.Shares))
	}
}

// logPlayer stands in for a playback engine.
type logPlayer struct {
	log *zap.Logger
}

func (p logPlayer) Play(index int) {
	p.log.Debug("play", zap.Int("index", index))
}

func (p logPlayer) Pause(index int) {
	p.log.Debug("pause", zap.Int("index", index))
}
