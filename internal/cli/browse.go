package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/rosterview/internal/auth"
	"github.com/rshade/rosterview/internal/config"
	"github.com/rshade/rosterview/internal/logging"
	"github.com/rshade/rosterview/internal/selection"
	"github.com/rshade/rosterview/internal/source"
	"github.com/rshade/rosterview/internal/tui"
)

// errSessionExpired is returned by non-interactive browsing when the backend
// rejects the token mid-run.
var errSessionExpired = errors.New("session expired, run `rosterview login` again")

type browseFlags struct {
	teamSet  bool
	teamID   int
	memberID string
	prefetch bool
	plain    bool
}

func newBrowseCmd(state *appState) *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse teams, rosters and member profiles",
		Long: `Shows every team. Opening a team lists its members; opening a member
loads their profile on demand. Profiles are fetched once per session.

In a terminal, browse runs an interactive viewer. When output is piped, or
with --plain, it prints the requested view once.`,
		Example: `  # Interactive browser
  rosterview browse

  # Open team 4 and member u17 on start
  rosterview browse --team 4 --expand u17

  # Print team 4 with all profiles
  rosterview browse --team 4 --prefetch --plain`,
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.teamSet = cmd.Flags().Changed("team")
			if cmd.Flags().Changed("prefetch") {
				state.cfg.Prefetch.Enabled = flags.prefetch
			}
			return runBrowse(cmd, state.cfg, flags)
		},
	}

	cmd.Flags().IntVar(&flags.teamID, "team", 0, "open this team id on start")
	cmd.Flags().StringVar(&flags.memberID, "expand", "", "expand this member id of --team on start")
	cmd.Flags().BoolVar(&flags.prefetch, "prefetch", false, "load every profile of an opened team")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print once instead of running the interactive browser")

	return cmd
}

func runBrowse(cmd *cobra.Command, cfg *config.Config, flags browseFlags) error {
	ctx := cmd.Context()
	if flags.memberID != "" && !flags.teamSet {
		return errors.New("--expand requires --team")
	}

	tok, err := sessionToken(cfg)
	if err != nil {
		return err
	}

	src, err := source.NewHTTPSource(cfg.API.BaseURL,
		source.WithToken(tok.Raw),
		source.WithTimeout(cfg.API.Timeout),
		source.WithAPIConstraint(cfg.API.MinVersion),
		source.WithLogger(logging.ComponentLogger(logger, "source")),
	)
	if err != nil {
		return err
	}

	ctrl := selection.New(src,
		selection.WithSeparators(cfg.Roster.Separators),
		selection.WithPrefetchConcurrency(cfg.Prefetch.Concurrency),
		selection.WithLogger(logging.ComponentLogger(logger, "selection")),
	)

	if !takesOverTerminal(cmd) {
		err = tui.RenderPlain(ctx, cmd.OutOrStdout(), ctrl, tui.PlainOptions{
			TeamID:   flags.teamID,
			HasTeam:  flags.teamSet,
			MemberID: flags.memberID,
			Prefetch: cfg.Prefetch.Enabled,
		})
		if errors.Is(err, source.ErrUnauthorized) {
			return errSessionExpired
		}
		return err
	}
	return runInteractiveBrowser(ctx, ctrl, tok, cfg, flags)
}

func runInteractiveBrowser(
	ctx context.Context,
	ctrl *selection.Controller,
	tok auth.Token,
	cfg *config.Config,
	flags browseFlags,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := make(chan struct{})
	stop := auth.Watch(ctx, tok, func() { close(expired) })
	defer stop()

	opts := []tui.BrowserOption{
		tui.WithSessionExpiry(expired),
		tui.WithPrefetchOnSelect(cfg.Prefetch.Enabled),
		tui.WithBrowserLogger(logging.ComponentLogger(logger, "tui")),
	}
	if flags.teamSet {
		opts = append(opts, tui.WithInitialSelection(flags.teamID, flags.memberID))
	}
	model := tui.NewBrowserModel(ctx, ctrl, opts...)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// sessionToken returns the configured or stored token, rejecting expired ones.
func sessionToken(cfg *config.Config) (auth.Token, error) {
	var (
		tok auth.Token
		err error
	)
	if cfg.Auth.Token != "" {
		tok, err = auth.ParseToken(cfg.Auth.Token)
	} else {
		tok, err = auth.NewTokenStore(cfg.Auth.TokenFile).Load()
	}

	switch {
	case errors.Is(err, auth.ErrNoToken):
		return auth.Token{}, fmt.Errorf("%w: run `rosterview login` first", err)
	case err != nil:
		return auth.Token{}, err
	case tok.Expired(time.Now()):
		return auth.Token{}, fmt.Errorf("%w: run `rosterview login` again", auth.ErrTokenExpired)
	}
	return tok, nil
}
