package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/equipe-feedtrack/feedtrack/internal/access"
	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/session"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the FeedTrack BFA",
		Long: `Log in with a dashboard account. The password is read from the
terminal without echo, or from stdin when it is not a terminal.

Examples:
  feedtrackctl login -u admin
  echo "$PASSWORD" | feedtrackctl login -u funcionario`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(username) == "" {
				return errors.New("--username is required")
			}
			password, err := a.readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			c := NewClient(a.cfg.Server, a.httpClient, "")
			sess, err := c.Login(a.context(cmd), username, password)
			if err != nil {
				return err
			}

			if err := a.store.Save(session.Session{
				User:      sess.User,
				Server:    a.cfg.Server,
				ExpiresAt: sess.ExpiresAt,
			}, sess.AccessToken); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logado como %s (%s).\n", sess.User.DisplayName, sess.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Revoke server-side when possible; the local session goes regardless.
			if c, err := a.client(); err == nil {
				if err := c.Logout(a.context(cmd)); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server logout failed: %v\n", err)
				}
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var user domain.User
			if err := c.Get(a.context(cmd), "/v1/auth/me", nil, &user); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), user, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s) - %s\n", user.DisplayName, user.Username, user.Role)
				return err
			})
		},
	}
}

func (a *app) navCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "List the dashboard pages available to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			var nav struct {
				User  domain.User      `json:"user" yaml:"user"`
				Items []access.NavItem `json:"items" yaml:"items"`
			}
			if err := c.Get(a.context(cmd), "/v1/navigation", nil, &nav); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), nav, func(w io.Writer) error {
				rows := make([][]string, 0, len(nav.Items))
				for _, it := range nav.Items {
					rows = append(rows, []string{it.Label, it.Path})
				}
				return table(w, []string{"PAGE", "PATH"}, rows)
			})
		},
	}
}
