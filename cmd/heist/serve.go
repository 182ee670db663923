package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heist/internal/platform/tui"
)

var (
	flagSSHAddr        string
	flagHostKey        string
	flagIdleTimeout    int
	flagEmbedRelayAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the heist SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the menu.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.heist/host_key

Co-op:
  --relay-addr runs a relay inside the server so SSH players can pair up;
  --relay points sessions at a relay running elsewhere.

Examples:
  heist serve                           # Listen on :23234 with auto-generated key
  heist serve --ssh :2222               # Listen on port 2222
  heist serve --relay-addr :8080        # Also run the co-op relay
  heist serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagEmbedRelayAddr, "relay-addr", "", "Also run the co-op relay on this address")
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relayURL := flagRelayURL
	relayErr := make(chan error, 1)
	if flagEmbedRelayAddr != "" {
		if relayURL == "" {
			relayURL = localURL(flagEmbedRelayAddr)
		}
		go func() {
			// Rooms are recorded by the relay command; here the SSH server owns the database.
			relayErr <- serveRelay(ctx, flagEmbedRelayAddr, nil)
		}()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.RelayURL = relayURL
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.LevelNames = levelNames()
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	server, err := tui.NewSSHServer(cfg, logger.WithPrefix("ssh"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting heist SSH server on %s\n", cfg.Address)
	if relayURL != "" {
		fmt.Printf("Co-op relay: %s\n", relayURL)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	if flagEmbedRelayAddr != "" {
		stop()
		return <-relayErr
	}
	return nil
}

// localURL turns a listen address like ":8080" into a dialable one.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
