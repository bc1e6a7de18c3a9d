package handler

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/Tetsu-is/danceverse/internal/repository"
	"github.com/Tetsu-is/danceverse/internal/storage"
)

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]domain.User
	passwords map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]domain.User{}, passwords: map[string]string{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, userID, email, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return nil, repository.ErrDuplicateUser
		}
	}
	u := domain.User{ID: userID, Email: email, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.byID[userID] = u
	f.passwords[userID] = password
	return &u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetUserAuth(_ context.Context, userID string) (*domain.UserAuth, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.passwords[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &domain.UserAuth{UserID: userID, HashedPassword: p}, nil
}

func (f *fakeUsers) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeVideos struct {
	mu     sync.Mutex
	users  *fakeUsers
	videos []domain.Video
}

func (f *fakeVideos) CreateVideo(ctx context.Context, videoID string, req domain.InsertVideoRequest) (*domain.Video, error) {
	if _, err := f.users.GetUserByID(ctx, req.UserID); err != nil {
		return nil, repository.ErrUnknownOwner
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := domain.Video{ID: videoID, URL: req.URL, Title: req.Title, IsPublic: req.IsPublic, UserID: req.UserID, CreatedAt: time.Now()}
	f.videos = append(f.videos, v)
	return &v, nil
}

func (f *fakeVideos) GetPublicVideos(_ context.Context, count int) ([]domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Video
	for _, v := range f.videos {
		if v.IsPublic && len(out) < count {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeBoard struct {
	entries []domain.LeaderboardEntry
}

// GetTop ignores count so the handler's own cap is exercised.
func (f *fakeBoard) GetTop(context.Context, int) ([]domain.LeaderboardEntry, error) {
	return f.entries, nil
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Put(_ context.Context, bucket, key, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[bucket+"/"+key]; ok {
		return storage.ErrObjectExists
	}
	f.objects[bucket+"/"+key] = data
	f.types[bucket+"/"+key] = contentType
	return nil
}

func (f *fakeObjects) Remove(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, bucket+"/"+key)
	return nil
}

func (f *fakeObjects) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (*url.URL, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[bucket+"/"+key]; !ok {
		return nil, storage.ErrObjectNotFound
	}
	return url.Parse("http://minio.local/" + bucket + "/" + key + "?X-Amz-Signature=sig")
}
