// Package app is the application scoped context shared by every screen.
package app

import (
	"context"
	"sync"

	"github.com/Tetsu-is/danceverse/internal/client"
	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/Tetsu-is/danceverse/internal/session"
	"go.uber.org/zap"
)

// AuthClient is the part of the backend client the app keeps in sync with.
type AuthClient interface {
	CurrentUser(ctx context.Context) (string, bool, error)
	OnAuthStateChange(l client.AuthListener) *client.Subscription
}

type App struct {
	Session *session.Store
	Log     *zap.Logger

	auth AuthClient

	mu  sync.Mutex
	sub *client.Subscription
}

func New(auth AuthClient, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{Session: session.NewStore(), Log: log, auth: auth}
}

// Start seeds the session from the backend and follows auth state changes
// until Close.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sub == nil {
		a.sub = a.auth.OnAuthStateChange(func(event client.AuthEvent, s *domain.Session) {
			if s == nil {
				a.Session.Clear()
				return
			}
			a.Session.Set(s.User.ID)
		})
	}

	id, ok, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if ok {
		a.Session.Set(id)
	} else {
		a.Session.Clear()
	}
	a.Log.Debug("session restored", zap.Bool("signed_in", ok))
	return nil
}

// Close unregisters the auth listener. It is safe to call more than once.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sub != nil {
		a.sub.Unsubscribe()
		a.sub = nil
	}
}
