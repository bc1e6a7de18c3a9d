package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu       sync.Mutex
	uploads  map[string]string
	inserted []domain.InsertVideoRequest
	loggedIn bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{uploads: map[string]string{}}
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	session := domain.Session{AccessToken: "tok", User: domain.User{ID: "user-1", Email: "a@example.com"}}

	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var c domain.Credentials
		json.NewDecoder(r.Body).Decode(&c)
		if c.Email == "taken@example.com" {
			writeJSON(w, http.StatusConflict, domain.ErrorResponse{Code: "user_already_exists", Message: "User already registered"})
			return
		}
		if c.Email == "pending@example.com" {
			writeJSON(w, http.StatusCreated, domain.SignupResponse{User: &session.User})
			return
		}
		writeJSON(w, http.StatusCreated, domain.SignupResponse{User: &session.User, Session: &session})
	})
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var c domain.Credentials
		json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "secret123" {
			writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Code: "invalid_credentials", Message: "Invalid login credentials"})
			return
		}
		writeJSON(w, http.StatusOK, domain.SigninResponse{Session: session})
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, domain.ErrorResponse{Code: "unauthorized", Message: "invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, session.User)
	})
	mux.HandleFunc("GET /rest/v1/videos", func(w http.ResponseWriter, r *http.Request) {
		var vs []domain.Video
		for i := range 12 {
			vs = append(vs, domain.Video{ID: fmt.Sprint(i), URL: "https://example.com/v.mp4", IsPublic: true})
		}
		writeJSON(w, http.StatusOK, domain.GetVideosResponse{Videos: vs})
	})
	mux.HandleFunc("GET /rest/v1/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		var es []domain.LeaderboardEntry
		for i := range 60 {
			es = append(es, domain.LeaderboardEntry{DancerName: fmt.Sprint(i), Score: int64(i)})
		}
		writeJSON(w, http.StatusOK, domain.GetLeaderboardResponse{Entries: es})
	})
	mux.HandleFunc("POST /rest/v1/videos", func(w http.ResponseWriter, r *http.Request) {
		var v domain.InsertVideoRequest
		json.NewDecoder(r.Body).Decode(&v)
		fb.mu.Lock()
		fb.inserted = append(fb.inserted, v)
		fb.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /storage/v1/object/{bucket}/{key...}", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.uploads[r.PathValue("bucket")+"/"+r.PathValue("key")] = r.Header.Get("Content-Type") + ":" + string(b)
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" {
			writeJSON(w, http.StatusUnauthorized, domain.ErrorResponse{Code: "invalid_api_key", Message: "Invalid API key"})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func TestSignInNotifiesAndPersists(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := New(srv.URL, "anon")

	var events []AuthEvent
	sub := c.OnAuthStateChange(func(e AuthEvent, s *domain.Session) {
		events = append(events, e)
	})
	defer sub.Unsubscribe()

	session, err := c.SignIn(context.Background(), "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.User.ID)

	id, ok, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	require.NoError(t, c.SignOut(context.Background()))
	_, ok, err = c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []AuthEvent{SignedIn, SignedOut}, events)
}

func TestSignInRejected(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := New(srv.URL, "anon")

	_, err := c.SignIn(context.Background(), "a@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid login credentials", apiErr.Error())
}

func TestSignUp(t *testing.T) {
	_, srv := newFakeBackend(t)

	t.Run("session", func(t *testing.T) {
		c := New(srv.URL, "anon")
		res, err := c.SignUp(context.Background(), "a@example.com", "secret123")
		require.NoError(t, err)
		require.NotNil(t, res.Session)
		_, ok, err := c.CurrentUser(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("pending", func(t *testing.T) {
		c := New(srv.URL, "anon")
		res, err := c.SignUp(context.Background(), "pending@example.com", "secret123")
		require.NoError(t, err)
		assert.Nil(t, res.Session)
		_, ok, _ := c.CurrentUser(context.Background())
		assert.False(t, ok)
	})

	t.Run("duplicate", func(t *testing.T) {
		c := New(srv.URL, "anon")
		_, err := c.SignUp(context.Background(), "taken@example.com", "secret123")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "user_already_exists", apiErr.Code)
	})
}

func TestUnsubscribe(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := New(srv.URL, "anon")

	calls := 0
	sub := c.OnAuthStateChange(func(AuthEvent, *domain.Session) { calls++ })
	sub.Unsubscribe()
	sub.Unsubscribe()

	_, err := c.SignIn(context.Background(), "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestExpiredCredentialIsDropped(t *testing.T) {
	_, srv := newFakeBackend(t)
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(&domain.Session{AccessToken: "stale"}))
	c := New(srv.URL, "anon", WithTokenStore(store))

	_, ok, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	s, _ := store.Load()
	assert.Nil(t, s)
}

func TestQueriesAreCapped(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := New(srv.URL, "anon")

	videos, err := c.PublicVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, domain.PublicVideosLimit)

	entries, err := c.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, domain.LeaderboardLimit)
	assert.Equal(t, int64(59), entries[0].Score)
}

func TestWritesRequireSession(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := New(srv.URL, "anon")

	err := c.InsertVideo(context.Background(), domain.InsertVideoRequest{URL: "https://example.com/v.mp4"})
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestUploadAndInsert(t *testing.T) {
	fb, srv := newFakeBackend(t)
	c := New(srv.URL, "anon")
	_, err := c.SignIn(context.Background(), "a@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, c.Upload(context.Background(), VideosBucket, "user-1/1.mp4", []byte("data"), "video/mp4"))
	assert.Equal(t, "video/mp4:data", fb.uploads["videos/user-1/1.mp4"])

	u := c.PublicURL(VideosBucket, "user-1/1.mp4")
	assert.Equal(t, srv.URL+"/storage/v1/object/public/videos/user-1/1.mp4", u)

	require.NoError(t, c.InsertVideo(context.Background(), domain.InsertVideoRequest{URL: u, Title: "T", IsPublic: true, UserID: "user-1"}))
	require.Len(t, fb.inserted, 1)
	assert.Equal(t, u, fb.inserted[0].URL)
}

func TestWrongAnonKey(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := New(srv.URL, "nope")

	_, err := c.Leaderboard(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_api_key", apiErr.Code)
}

func TestFileTokenStore(t *testing.T) {
	store := &FileTokenStore{Path: filepath.Join(t.TempDir(), "nested", "session.json")}

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, store.Save(&domain.Session{AccessToken: "tok", User: domain.User{ID: "u"}}))
	s, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	s, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}
