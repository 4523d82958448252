package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/rosterview/internal/auth"
	"github.com/rshade/rosterview/internal/logging"
)

func newLoginCmd(state *appState) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Exchanges recruiter credentials for a session token and stores it at
~/.rosterview/token (mode 0600). Missing credentials are prompted for; the
password is read without echo when stdin is a terminal.`,
		Example: `  rosterview login --email recruiter@example.com
  echo "$PASSWORD" | rosterview login --email recruiter@example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email == "" {
				if email, err = promptLine(cmd.ErrOrStderr(), in, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(cmd, in); err != nil {
					return err
				}
			}

			cfg := state.cfg
			client, err := auth.NewClient(cfg.API.BaseURL,
				&http.Client{Timeout: cfg.API.Timeout},
				logging.ComponentLogger(logger, "auth"))
			if err != nil {
				return err
			}

			tok, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			store := auth.NewTokenStore(cfg.Auth.TokenFile)
			if err = store.Save(tok.Raw); err != nil {
				return err
			}

			cmd.Printf("Logged in as %s\n", email)
			if !tok.ExpiresAt.IsZero() {
				cmd.Printf("Session expires at %s\n", tok.ExpiresAt.Local().Format(time.RFC1123))
			}
			logger.Info().Ctx(cmd.Context()).Str("token_file", store.Path()).Msg("session stored")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "recruiter email")
	cmd.Flags().StringVar(&password, "password", "", "recruiter password (prompted when omitted)")

	return cmd
}

func newLogoutCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := auth.NewTokenStore(state.cfg.Auth.TokenFile).Clear(); err != nil {
				return err
			}
			cmd.Println("Logged out")
			return nil
		},
	}
}

func promptLine(w io.Writer, in *bufio.Reader, prompt string) (string, error) {
	_, _ = fmt.Fprint(w, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo from a terminal, or a line otherwise.
func promptPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}
	return promptLine(cmd.ErrOrStderr(), in, "Password: ")
}
