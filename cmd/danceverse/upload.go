package main

import (
	"errors"
	"fmt"

	"github.com/Tetsu-is/danceverse/internal/upload"
	"github.com/spf13/cobra"
)

func newUploadCmd(e *env) *cobra.Command {
	var (
		title      string
		videoURL   string
		file       string
		keepOrphan bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Share a dance video by URL or from a local file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := upload.Request{Title: title, Mode: upload.ModeURL, URL: videoURL}
			if file != "" {
				if videoURL != "" {
					return errors.New("use either --url or --file, not both")
				}
				req = upload.Request{Title: title, Mode: upload.ModeFile, FilePath: file}
			}

			opts := []upload.Option{upload.WithLogger(e.log)}
			if keepOrphan {
				opts = append(opts, upload.WithoutOrphanCleanup())
			}
			flow := upload.New(e.client, e.app.Session, opts...)

			_, err := flow.Submit(cmd.Context(), req)
			if errors.Is(err, upload.ErrSignInRequired) {
				return displayError(upload.UserMessage(err) + ": run `danceverse auth signin` first")
			}
			var verr *upload.ValidationError
			if errors.As(err, &verr) {
				return displayError(verr.Title + ": " + verr.Message)
			}
			if err != nil {
				msg := upload.UserMessage(err)
				if upload.IsForeignKeyViolation(err) {
					return displayError(msg)
				}
				if req.Mode == upload.ModeFile {
					msg += "\n\nPlease try again or use the URL upload mode instead."
				}
				return displayError("Upload failed: " + msg)
			}

			if req.Mode == upload.ModeFile {
				fmt.Fprintln(cmd.OutOrStdout(), "Success! 🎉 Your video has been uploaded and is now live!")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Success! 🎉 Your video has been added to the feed!")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Video title")
	cmd.Flags().StringVar(&videoURL, "url", "", "Public video URL (http or https)")
	cmd.Flags().StringVar(&file, "file", "", "Local video file to upload")
	cmd.Flags().BoolVar(&keepOrphan, "keep-orphan", false, "Leave the uploaded file in storage when saving the video fails")
	return cmd
}
