package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heist/internal/multiplayer"
	"github.com/vovakirdan/tui-heist/internal/storage"
)

var (
	flagRelayAddr   string
	flagRoomTimeout time.Duration
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Start the co-op relay",
	Long: `Start the websocket relay that pairs co-op players by room code.

Endpoints:
  /ws           - Websocket; no code opens a room, ?code=XXXX joins one
  /api/signal   - Key/value signaling store (GET ?key=, POST, DELETE)
  /healthz      - Liveness and open room count

Finished rooms are recorded in the scores database.

Examples:
  heist relay
  heist relay --addr :9000 --room-timeout 5m`,
	Args: cobra.NoArgs,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&flagRelayAddr, "addr", ":8080", "Relay listen address (host:port)")
	relayCmd.Flags().DurationVar(&flagRoomTimeout, "room-timeout", 10*time.Minute, "How long a room waits for a partner")
}

func runRelay(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("rooms will not be recorded", "db", flagDBPath, "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	return serveRelay(ctx, flagRelayAddr, store)
}

// serveRelay runs the relay until ctx is done, then drains it.
func serveRelay(ctx context.Context, addr string, store *storage.Store) error {
	cfg := multiplayer.DefaultCoordinatorConfig()
	if flagRoomTimeout > 0 {
		cfg.RoomTimeout = flagRoomTimeout
	}
	coord := multiplayer.NewCoordinator(cfg)
	coord.SetLogger(logger.WithPrefix("relay"))
	if store != nil {
		coord.SetRecorder(store)
	}
	coord.Start()

	relay := multiplayer.NewRelay(coord, logger.WithPrefix("relay"))
	srv := &http.Server{
		Addr:              addr,
		Handler:           relay.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		coord.Stop()
		return fmt.Errorf("relay listen: %w", err)
	}
	logger.Info("relay listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		coord.Stop()
		return err
	case <-ctx.Done():
	}

	logger.Info("relay shutting down", "rooms", coord.RoomCount())
	// Closing the rooms first ends the hijacked websocket connections,
	// which Shutdown does not wait for.
	coord.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
