package client

import (
	"context"
	"net/http"

	"github.com/Tetsu-is/danceverse/internal/domain"
)

const VideosBucket = "videos"

// PublicVideos fetches at most 10 public videos.
func (c *Client) PublicVideos(ctx context.Context) ([]domain.Video, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/rest/v1/videos", nil, false)
	var resp domain.GetVideosResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Videos) > domain.PublicVideosLimit {
		resp.Videos = resp.Videos[:domain.PublicVideosLimit]
	}
	return resp.Videos, nil
}

// Leaderboard fetches the top 50 entries, highest score first.
func (c *Client) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/rest/v1/leaderboard", nil, false)
	var resp domain.GetLeaderboardResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return domain.TopEntries(resp.Entries, domain.LeaderboardLimit), nil
}

func (c *Client) InsertVideo(ctx context.Context, v domain.InsertVideoRequest) error {
	req, err := c.jsonRequest(http.MethodPost, "/rest/v1/videos", v, true)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}
