package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heist/internal/registry"
	"github.com/vovakirdan/tui-heist/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top 10 scores for a game, or a summary of every game and
the latest co-op runs when no game is given.

Examples:
  heist scores
  heist scores heist
  heist scores heist_endless`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(store)
	}

	gameID := args[0]
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w (run 'heist scores' to see every game)", err)
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'heist play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %s\n", "Rank", "Score", "Level", "Outcome", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-8s  %s\n", "----", "-----", "-----", "-------", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-8d  %-5d  %-8s  %s\n",
			i+1, entry.Score, entry.Level, entry.Outcome, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		fmt.Println("No scores recorded yet.")
	} else {
		fmt.Printf("  %-14s  %5s  %6s  %8s  %5s  %s\n", "Game", "Runs", "Best", "Average", "Level", "Last played")
		for _, id := range ids {
			s := stats[id]
			fmt.Printf("  %-14s  %5d  %6d  %8.1f  %5d  %s\n",
				id, s.GamesCount, s.HighScore, s.AvgScore, s.BestLevel, s.LastPlayed.Format("2006-01-02 15:04"))
		}
	}

	runs, err := store.RecentCoopRuns(10)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent co-op runs")
	fmt.Printf("  %-4s  %-5s  %6s  %5s  %-8s  %s\n", "Room", "Role", "Score", "Level", "Outcome", "Date")
	for _, r := range runs {
		fmt.Printf("  %-4s  %-5s  %6d  %5d  %-8s  %s\n",
			r.RoomCode, r.Role, r.Score, r.Level, r.Outcome, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
