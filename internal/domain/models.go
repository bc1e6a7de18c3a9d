package domain

import "time"

// ============================================
// Domain Models
// ============================================

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserAuth struct {
	UserID         string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// Video is a row of the videos table. Only public rows reach the feed.
type Video struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	IsPublic  bool      `json:"is_public"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry originates outside the app; there is no write path.
type LeaderboardEntry struct {
	DancerName string `json:"dancer_name"`
	Score      int64  `json:"score"`
}

const (
	// PublicVideosLimit caps the feed query.
	PublicVideosLimit = 10
	// LeaderboardLimit caps the leaderboard query.
	LeaderboardLimit = 50
	// MinPasswordLength is enforced on sign up.
	MinPasswordLength = 6
)

// ============================================
// Request/Response Models
// ============================================

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// SignupResponse carries a nil Session when the account awaits verification.
type SignupResponse struct {
	User    *User    `json:"user"`
	Session *Session `json:"session,omitempty"`
}

type SigninResponse struct {
	Session Session `json:"session"`
}

type InsertVideoRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	IsPublic bool   `json:"is_public"`
	UserID   string `json:"user_id"`
}

type GetVideosResponse struct {
	Videos []Video `json:"videos"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
