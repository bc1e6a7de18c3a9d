package upload

import (
	"errors"
	"strings"

	"github.com/Tetsu-is/danceverse/internal/client"
)

var (
	ErrSignInRequired = errors.New("sign in required")
	ErrInProgress     = errors.New("an upload is already in progress")
	ErrFileNotFound   = errors.New("video file not found")
)

const (
	SignInRequiredMessage = "Please sign in to upload videos"
	FileNotFoundMessage   = "Video file not found"
)

// AccountMismatchMessage replaces foreign key failures on insert.
const AccountMismatchMessage = "There was an issue with your account. Please sign out and sign back in, then try again.\n\nTechnical: User ID not found in database."

// ValidationError is a local input problem. No backend call was made.
type ValidationError struct {
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StepError is a failure of one step of the upload chain.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// IsForeignKeyViolation reports whether err is the backend rejecting a video
// whose owner has no account.
func IsForeignKeyViolation(err error) bool {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Code == "foreign_key_violation" {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "foreign key constraint")
}

// UserMessage is the text shown to the user for err. Backend messages pass
// through verbatim except for foreign key violations.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case IsForeignKeyViolation(err):
		return AccountMismatchMessage
	case errors.Is(err, ErrSignInRequired):
		return SignInRequiredMessage
	case errors.Is(err, ErrFileNotFound):
		return FileNotFoundMessage
	}

	var step *StepError
	if errors.As(err, &step) {
		err = step.Err
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error occurred"
}
