package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heist/internal/games/heist/levels"
	"github.com/vovakirdan/tui-heist/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the interactive menu",
	Long: `Start in interactive menu mode.

Pick the campaign (left/right chooses the start level), endless mode,
co-op (when a relay is configured) or the high score boards.
After a run ends, you return to the menu to play again.

Controls:
  Up/Down/j/k    - Navigate menu
  Left/Right     - Choose start level
  Enter/Space    - Select
  Tab            - High scores
  Q              - Quit

Examples:
  heist menu
  heist menu --relay localhost:8080
  heist menu --fps 30 --db ./scores.db`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"output": "tui"},
	RunE:        runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	return tui.RunSession(tui.SessionOptions{
		Store:      store,
		Config:     runtimeConfig(),
		RelayURL:   flagRelayURL,
		Logger:     logger,
		LevelNames: levelNames(),
	})
}

// levelNames lists the campaign for the start level picker.
func levelNames() []string {
	campaign, err := levels.LoadCampaign(flagLevelsDir, logger)
	if err != nil {
		logger.Warn("cannot list levels", "dir", flagLevelsDir, "err", err)
		return nil
	}
	return campaign.Names()
}
