package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-heist/internal/core"
	"github.com/vovakirdan/tui-heist/internal/multiplayer"
	"github.com/vovakirdan/tui-heist/internal/platform/tui"
	"github.com/vovakirdan/tui-heist/internal/registry"
	"github.com/vovakirdan/tui-heist/internal/storage"

	// Registers heist and heist_endless
	_ "github.com/vovakirdan/tui-heist/internal/games/heist"
)

var (
	flagLevel   int
	flagEndless bool
	flagHost    bool
	flagJoin    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the heist",
	Long: `Start playing right away, without the menu.

Controls:
  Arrows/WASD/HJKL  - Move
  Shift+move        - Sneak step
  Space/C           - Toggle sneaking
  Enter             - Next level / continue
  R                 - Retry after getting caught
  P                 - Pause
  Esc               - Back (while paused or after a run)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Guards notice you slower, the meter cools faster
  normal - Default tuning
  hard   - Guards notice you faster, the meter cools slower
  fixed  - Every level uses level 1 guard range and cone

Co-op:
  One player hosts and reads out the room code, the other joins with it.
  Both need the same relay (see 'heist relay').

Examples:
  heist play
  heist play --level 4
  heist play --endless --difficulty hard
  heist play --host --relay localhost:8080
  heist play --join K7QX --relay localhost:8080`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"output": "tui"},
	RunE:        runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 1, "Level to start on (1-based)")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Keep going past the last level")
	playCmd.Flags().BoolVar(&flagHost, "host", false, "Open a co-op room")
	playCmd.Flags().StringVar(&flagJoin, "join", "", "Join the co-op room with this code")
	playCmd.MarkFlagsMutuallyExclusive("host", "join")
	playCmd.MarkFlagsMutuallyExclusive("endless", "join")
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the scores database, or returns nil so play goes on without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores disabled", "db", flagDBPath, "err", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, _ []string) error {
	gameID := "heist"
	if flagEndless {
		gameID = "heist_endless"
	}
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	cfg := runtimeConfig()
	cfg.Level = flagLevel

	opts := tui.GameOptions{Logger: logger}
	if flagHost || flagJoin != "" {
		link, announce, err := connect()
		if err != nil {
			return err
		}
		if link == nil {
			return nil // cancelled while waiting
		}
		opts.Link = link
		opts.Announce = announce
	}

	opts.Store = openStore()
	if opts.Store != nil {
		defer opts.Store.Close()
	}

	if err := tui.Run(game, cfg, opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// connect opens or joins a room. The host waits here for the partner so
// the code stays on screen until someone uses it.
func connect() (*multiplayer.PeerLink, bool, error) {
	if flagRelayURL == "" {
		return nil, false, errors.New("co-op needs a relay: pass --relay or set HEIST_RELAY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if flagJoin != "" {
		link, err := multiplayer.Join(dialCtx, flagRelayURL, flagJoin, logger)
		if err != nil {
			return nil, false, fmt.Errorf("joining room %s: %w", multiplayer.NormalizeCode(flagJoin), err)
		}
		return link, false, nil
	}

	link, err := multiplayer.Host(dialCtx, flagRelayURL, logger)
	if err != nil {
		return nil, false, fmt.Errorf("opening room: %w", err)
	}

	fmt.Printf("Room code: %s\n", link.Code())
	fmt.Println("Waiting for your partner to join... (Ctrl+C to cancel)")

	select {
	case <-link.Paired():
		return link, true, nil
	case <-link.Done():
		return nil, false, errors.New("relay closed the room")
	case <-ctx.Done():
		link.Close()
		return nil, false, nil
	}
}
