package cli

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/trip-journal/internal/session"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Manage the stored session token"}

	var token string
	login := &cobra.Command{
		Use:   "login",
		Short: "Store a session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.login(cmd, token)
		},
	}
	login.Flags().StringVar(&token, "token", "", "token to store (prompted when empty)")

	cmd.AddCommand(login)
	cmd.AddCommand(&cobra.Command{Use: "logout", Short: "Forget the stored token", Args: cobra.NoArgs, RunE: a.logout})
	cmd.AddCommand(&cobra.Command{Use: "status", Short: "Show the stored session", Args: cobra.NoArgs, RunE: a.status})
	return cmd
}

func (a *app) login(cmd *cobra.Command, token string) error {
	if token == "" {
		var err error
		if token, err = a.readSecret(cmd, "Token: "); err != nil {
			return err
		}
	}
	claims, reason := session.Decode(token, a.clock.Now())
	if reason != session.ReasonOK {
		return errors.Errorf("token rejected: %s", reason)
	}
	if err := a.tokens().Set(cmd.Context(), token); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if id, ok := claims.UserID(); ok {
		fmt.Fprintf(out, "Logged in as user %d", id)
	} else {
		fmt.Fprint(out, "Logged in")
	}
	if email, ok := claims.Email(); ok {
		fmt.Fprintf(out, " (%s)", email)
	}
	fmt.Fprintln(out)
	return nil
}

func (a *app) logout(cmd *cobra.Command, _ []string) error {
	if err := a.tokens().Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func (a *app) status(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dec := a.decoder()
	st := dec.Inspect(ctx)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status:  %s\n", st.Reason)
	if st.ExpiresAt != nil {
		fmt.Fprintf(out, "expires: %s\n", st.ExpiresAt.UTC().Format(time.RFC3339))
	}
	if !st.Valid {
		return nil
	}
	if id, ok := dec.CurrentUserID(ctx); ok {
		fmt.Fprintf(out, "user id: %d\n", id)
	}
	if email, ok := dec.CurrentUserEmail(ctx); ok {
		fmt.Fprintf(out, "email:   %s\n", email)
	}
	return nil
}
