// Package cli implements feedtrackctl, a command-line client for the
// FeedTrack BFA. It logs in, keeps the session between runs and drives the
// same endpoints the dashboard uses.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/equipe-feedtrack/feedtrack/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app holds state shared by every command of one invocation.
type app struct {
	configDir  string
	server     string
	output     string
	cfg        *Config
	store      *session.Store
	httpClient *http.Client

	// readPassword reads a secret from in. Tests replace it.
	readPassword func(in io.Reader, out io.Writer) (string, error)
}

// NewRootCmd builds the feedtrackctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{readPassword: promptPassword}

	root := &cobra.Command{
		Use:   "feedtrackctl",
		Short: "Command-line client for the FeedTrack dashboard",
		Long: `feedtrackctl talks to the FeedTrack BFA with the same rules as the
dashboard: log in once, then list customers, products, campaigns and
feedbacks, or pull reports if your role allows it.

The session is stored in ~/.feedtrack/session.yaml and the token in the
system keyring. FEEDTRACK_TOKEN overrides the stored token.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default ~/.feedtrack)")
	root.PersistentFlags().StringVar(&a.server, "server", "", "BFA base URL (overrides config)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "", "output format: text, json or yaml")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.navCmd(),
		a.customersCmd(),
		a.productsCmd(),
		a.campaignsCmd(),
		a.feedbacksCmd(),
		a.reportsCmd(),
		a.statusCmd(),
		a.notificationsCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	dir := a.configDir
	if dir == "" {
		d, err := session.Dir()
		if err != nil {
			return err
		}
		dir = d
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.Server = strings.TrimRight(a.server, "/")
	}
	if a.output != "" {
		cfg.Output = OutputFormat(a.output)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.store = session.NewStore(dir)
	a.httpClient = &http.Client{Timeout: cfg.Timeout}
	return nil
}

// client returns an authenticated client, or an error telling the user to
// log in.
func (a *app) client() (*Client, error) {
	_, token, err := a.store.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		// FEEDTRACK_TOKEN works without a session file.
		if t, terr := a.store.Token(); terr == nil {
			return NewClient(a.cfg.Server, a.httpClient, t), nil
		}
		return nil, errors.New("not logged in: run 'feedtrackctl login'")
	case errors.Is(err, session.ErrExpired):
		return nil, errors.New("session expired: run 'feedtrackctl login'")
	case err != nil:
		return nil, err
	}
	return NewClient(a.cfg.Server, a.httpClient, token), nil
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// promptPassword reads without echo from a terminal, or a line otherwise.
func promptPassword(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Senha: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
