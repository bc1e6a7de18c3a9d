package repository

import (
	"context"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeaderboardRepository struct {
	conn *pgxpool.Pool
}

func NewLeaderboardRepository(conn *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

func (r *LeaderboardRepository) GetTop(ctx context.Context, count int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT dancer_name, score FROM leaderboard ORDER BY score DESC, dancer_name ASC LIMIT $1",
		count,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.DancerName, &e.Score); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
