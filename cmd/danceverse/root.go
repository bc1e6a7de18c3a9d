package main

import (
	"context"

	"github.com/Tetsu-is/danceverse/internal/app"
	"github.com/Tetsu-is/danceverse/internal/client"
	"github.com/Tetsu-is/danceverse/internal/config"
	"github.com/Tetsu-is/danceverse/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env is the state shared by every subcommand for one invocation.
type env struct {
	verbose   bool
	tokenFile string

	log    *zap.Logger
	client *client.Client
	app    *app.App
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}

	root := &cobra.Command{
		Use:           "danceverse",
		Short:         "Watch, share, and rank dance videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&e.tokenFile, "token-file", "", "Session file (default: user config dir)")

	root.AddCommand(
		newFeedCmd(e),
		newAuthCmd(e),
		newUploadCmd(e),
		newLeaderboardCmd(e),
	)
	return root, e
}

// execute runs root and always tears down e, including when setup or the
// command itself fails.
func execute(ctx context.Context, root *cobra.Command, e *env) error {
	defer e.teardown()
	return root.ExecuteContext(ctx)
}

func (e *env) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(e.verbose)
	if err != nil {
		return err
	}
	e.log = log

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if cfg.Placeholder {
		e.log.Warn("using placeholder backend configuration", zap.String("url", cfg.ServiceURL))
	}

	path := e.tokenFile
	if path == "" {
		if path, err = client.DefaultTokenPath(); err != nil {
			return err
		}
	}

	e.client = client.New(cfg.ServiceURL, cfg.AnonKey,
		client.WithTokenStore(&client.FileTokenStore{Path: path}),
		client.WithLogger(e.log),
	)
	e.app = app.New(e.client, e.log)
	return e.app.Start(ctx)
}

func (e *env) teardown() {
	if e.app != nil {
		e.app.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

// displayError is shown to the user verbatim.
type displayError string

func (e displayError) Error() string {
	return string(e)
}

// userID is the signed in user or ErrNotSignedIn.
func (e *env) userID() (string, error) {
	id, ok := e.app.Session.Get()
	if !ok {
		return "", client.ErrNotSignedIn
	}
	return id, nil
}
