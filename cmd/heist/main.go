// heist is a top-down stealth heist played in the terminal.
//
// Usage:
//
//	heist play               - Play the campaign (or --endless, --host, --join)
//	heist menu               - Start the menu to pick a mode interactively
//	heist levels             - List campaign levels
//	heist validate <path>    - Check level files
//	heist scores [game]      - Show high scores
//	heist serve              - Start SSH server for remote play
//	heist relay              - Start the co-op relay
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible camera sweeps
//	--db <path|url>      - Set database (default: ~/.heist/scores.db)
//	--config <path>      - Custom tuning YAML
//	--difficulty <name>  - easy, normal, hard or fixed
//	--levels <dir>       - Load levels from a directory
//	--relay <url>        - Co-op relay address
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heist/internal/games/heist"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagRelayURL   string
	flagLogLevel   string
	flagLogFile    string
)

// logger is set up before every command runs.
var logger = log.New(io.Discard)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "heist",
	Short: "Heist - sneak past guards, cameras and lasers in your terminal",
	Long: `Heist is a top-down stealth game. Collect every piece of loot on the
floor and reach the exit before the alert meter fills up.

Available commands:
  play      - Play directly (campaign, endless or co-op)
  menu      - Interactive menu
  levels    - List levels
  validate  - Check level files
  scores    - View high scores
  serve     - Start SSH server for remote play
  relay     - Start the co-op relay

Examples:
  heist play
  heist play --level 3 --difficulty hard
  heist relay --addr :8080
  heist play --host --relay localhost:8080
  heist play --join K7QX --relay localhost:8080
  heist serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.heist/scores.db", "Scores database path or postgres:// URL")
	pf.StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLevelsDir, "levels", "", "Directory of level files (default: built-in campaign)")
	pf.StringVar(&flagRelayURL, "relay", os.Getenv("HEIST_RELAY"), "Co-op relay address (enables co-op)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "~/.heist/heist.log", "Log file for terminal play")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(relayCmd)
}

// setup builds the logger and hands the tuning flags to the game.
// Terminal play owns stdout, so its logs go to a file; servers log to stderr.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	if cmd.Annotations["output"] == "tui" {
		f, err := openLogFile(flagLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			w = io.Discard
		} else {
			cobra.OnFinalize(func() { f.Close() })
			w = f
		}
	}

	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "heist",
		Level:           level,
	})

	heist.SetLogger(logger)
	heist.SetConfigPath(flagConfig)
	heist.SetDifficultyPreset(flagDifficulty)
	heist.SetLevelsDir(flagLevelsDir)
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("no log file")
	}
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
