package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tetsu-is/danceverse/internal/client"
	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/spf13/cobra"
)

const (
	msgMissingCredentials = "Please enter both email and password"
	msgWeakPassword       = "Password must be at least 6 characters"
	msgAlreadyRegistered  = "This email is already registered. Please sign in instead."
	msgInvalidCredentials = "Invalid email or password"
	msgEmailNotConfirmed  = "Please verify your email before signing in"
	msgCheckEmail         = "✉️ Check your email! Click the verification link to activate your account, then return here and sign in."
	msgSignedUp           = "🎉 Account created! You are now signed in."
	msgSignedIn           = "✅ Signed in successfully!"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "Account email")
	cmd.Flags().StringVar(&f.password, "password", "", "Account password")
}

func newAuthCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, sign in, and sign out",
	}

	var up credentialFlags
	signup := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if up.email == "" || up.password == "" {
				return displayError(msgMissingCredentials)
			}
			if len(up.password) < domain.MinPasswordLength {
				return displayError(msgWeakPassword)
			}

			res, err := e.client.SignUp(cmd.Context(), up.email, up.password)
			if err != nil {
				return displayError(signUpMessage(err))
			}
			if res.Session != nil {
				fmt.Fprintln(cmd.OutOrStdout(), msgSignedUp)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), msgCheckEmail)
			return nil
		},
	}
	up.bind(signup)

	var in credentialFlags
	signin := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.email == "" || in.password == "" {
				return displayError(msgMissingCredentials)
			}
			if _, err := e.client.SignIn(cmd.Context(), in.email, in.password); err != nil {
				return displayError(signInMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), msgSignedIn)
			return nil
		},
	}
	in.bind(signin)

	signout := &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.client.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := e.userID()
			if errors.Is(err, client.ErrNotSignedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.AddCommand(signup, signin, signout, whoami)
	return cmd
}

func signUpMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Code == "user_already_exists" {
		return msgAlreadyRegistered
	}
	return messageOr(err, "An error occurred during sign up")
}

func signInMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return msgInvalidCredentials
	case strings.Contains(msg, "Email not confirmed"):
		return msgEmailNotConfirmed
	}
	return messageOr(err, "An error occurred during sign in")
}

func messageOr(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
