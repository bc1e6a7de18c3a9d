package repository

import (
	"context"
	"errors"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VideoRepository struct {
	conn *pgxpool.Pool
}

func NewVideoRepository(conn *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{conn: conn}
}

func (r *VideoRepository) CreateVideo(ctx context.Context, videoID string, req domain.InsertVideoRequest) (*domain.Video, error) {
	var v domain.Video
	var title *string
	if req.Title != "" {
		title = &req.Title
	}
	err := r.conn.QueryRow(ctx,
		`INSERT INTO videos (id, url, title, is_public, user_id) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, url, COALESCE(title, ''), is_public, user_id, created_at`,
		videoID, req.URL, title, req.IsPublic, req.UserID,
	).Scan(&v.ID, &v.URL, &v.Title, &v.IsPublic, &v.UserID, &v.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, ErrUnknownOwner
		}
		return nil, err
	}

	return &v, nil
}

// GetPublicVideos returns at most count public videos, newest first.
func (r *VideoRepository) GetPublicVideos(ctx context.Context, count int) ([]domain.Video, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT id, url, COALESCE(title, ''), is_public, user_id, created_at
		 FROM videos
		 WHERE is_public = true
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		count,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []domain.Video
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(&v.ID, &v.URL, &v.Title, &v.IsPublic, &v.UserID, &v.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}
