// Package upload publishes a video either by URL or by uploading a local file.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Tetsu-is/danceverse/internal/client"
	"github.com/Tetsu-is/danceverse/internal/domain"
	"go.uber.org/zap"
)

type State int

const (
	Idle State = iota
	Validating
	Uploading
	Succeeded
	Failed
)

var stateNames = [...]string{"idle", "validating", "uploading", "succeeded", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

type Mode int

const (
	ModeURL Mode = iota
	ModeFile
)

const Bucket = client.VideosBucket

// Backend is the part of the backend client the flow needs.
type Backend interface {
	Upload(ctx context.Context, bucket, key string, body []byte, contentType string) error
	PublicURL(bucket, key string) string
	InsertVideo(ctx context.Context, v domain.InsertVideoRequest) error
	Remove(ctx context.Context, bucket, key string) error
}

// Session reports the signed in user.
type Session interface {
	Get() (string, bool)
}

type Request struct {
	Title    string
	Mode     Mode
	URL      string
	FilePath string
}

type Result struct {
	URL string
	// Key is set in file mode.
	Key string
}

type Option func(*Flow)

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

func WithReadFile(read func(string) ([]byte, error)) Option {
	return func(f *Flow) { f.readFile = read }
}

func WithLogger(log *zap.Logger) Option {
	return func(f *Flow) { f.log = log }
}

// WithoutOrphanCleanup leaves an uploaded binary in place when the insert
// that follows it fails.
func WithoutOrphanCleanup() Option {
	return func(f *Flow) { f.cleanup = false }
}

type Flow struct {
	backend  Backend
	session  Session
	log      *zap.Logger
	now      func() time.Time
	readFile func(string) ([]byte, error)
	cleanup  bool

	mu      sync.Mutex
	state   State
	running bool
}

func New(backend Backend, session Session, opts ...Option) *Flow {
	f := &Flow{
		backend:  backend,
		session:  session,
		log:      zap.NewNop(),
		now:      time.Now,
		readFile: os.ReadFile,
		cleanup:  true,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// Submit runs one upload attempt. There is no retry; call Submit again.
func (f *Flow) Submit(ctx context.Context, req Request) (*Result, error) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil, ErrInProgress
	}
	f.running = true
	f.state = Validating
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.running = false
		f.mu.Unlock()
	}()

	userID, ok := f.session.Get()
	if !ok {
		// Stays at validating until the user signs in.
		return nil, ErrSignInRequired
	}
	if err := validate(req); err != nil {
		f.setState(Idle)
		return nil, err
	}

	f.setState(Uploading)

	var (
		res *Result
		err error
	)
	switch req.Mode {
	case ModeFile:
		res, err = f.submitFile(ctx, userID, req)
	default:
		res, err = f.submitURL(ctx, userID, req)
	}
	if err != nil {
		f.log.Warn("upload failed", zap.Error(err))
		f.setState(Failed)
		return nil, err
	}

	f.setState(Succeeded)
	return res, nil
}

func validate(req Request) error {
	title := strings.TrimSpace(req.Title)
	switch req.Mode {
	case ModeFile:
		if title == "" || strings.TrimSpace(req.FilePath) == "" {
			return &ValidationError{Title: "Missing info", Message: "Please add a title and select a video"}
		}
	default:
		u := strings.TrimSpace(req.URL)
		if title == "" || u == "" {
			return &ValidationError{Title: "Missing info", Message: "Please add a title and video URL"}
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return &ValidationError{Title: "Invalid URL", Message: "Please enter a valid video URL starting with http:// or https://"}
		}
	}
	return nil
}

func (f *Flow) submitURL(ctx context.Context, userID string, req Request) (*Result, error) {
	u := strings.TrimSpace(req.URL)
	err := f.backend.InsertVideo(ctx, domain.InsertVideoRequest{
		Title:    strings.TrimSpace(req.Title),
		URL:      u,
		UserID:   userID,
		IsPublic: true,
	})
	if err != nil {
		return nil, &StepError{Step: "insert", Err: err}
	}
	return &Result{URL: u}, nil
}

// submitFile runs read, upload, public url and insert strictly in sequence.
func (f *Flow) submitFile(ctx context.Context, userID string, req Request) (*Result, error) {
	body, err := f.readFile(req.FilePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &StepError{Step: "read", Err: ErrFileNotFound}
	} else if err != nil {
		return nil, &StepError{Step: "read", Err: err}
	}

	ext := Extension(req.FilePath)
	key := fmt.Sprintf("%s/%d.%s", userID, f.now().UnixMilli(), ext)

	if err := f.backend.Upload(ctx, Bucket, key, body, ContentType(ext)); err != nil {
		return nil, &StepError{Step: "upload", Err: err}
	}
	f.log.Debug("binary uploaded", zap.String("key", key), zap.Int("bytes", len(body)))

	publicURL := f.backend.PublicURL(Bucket, key)

	err = f.backend.InsertVideo(ctx, domain.InsertVideoRequest{
		Title:    strings.TrimSpace(req.Title),
		URL:      publicURL,
		UserID:   userID,
		IsPublic: true,
	})
	if err != nil {
		if f.cleanup {
			if rmErr := f.backend.Remove(ctx, Bucket, key); rmErr != nil {
				f.log.Warn("failed to remove orphaned upload", zap.String("key", key), zap.Error(rmErr))
			}
		}
		return nil, &StepError{Step: "insert", Err: err}
	}

	return &Result{URL: publicURL, Key: key}, nil
}

// Extension returns the lowercase extension of path without the dot, or mp4.
func Extension(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "mp4"
	}
	return ext
}

var videoTypes = map[string]string{
	"mp4":  "video/mp4",
	"m4v":  "video/x-m4v",
	"mov":  "video/quicktime",
	"webm": "video/webm",
	"mkv":  "video/x-matroska",
}

// ContentType maps an extension to a MIME type, falling back to video/mp4.
func ContentType(ext string) string {
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		return t
	}
	return "video/mp4"
}
