package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-heist/internal/games/heist/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the campaign levels",
	Long: `Shows the levels in campaign order with their size and hazards.

Examples:
  heist levels
  heist levels --levels ./my-levels`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Check level files",
	Long: `Parses and validates level files, stopping at the first bad one.
Directories are searched for .yaml and .yml files.

Examples:
  heist validate ./levels/vault.yaml
  heist validate ./levels`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runLevels(_ *cobra.Command, _ []string) error {
	loader := levels.Embedded()
	if flagLevelsDir != "" {
		loader = levels.NewLoader(flagLevelsDir)
	}
	all, err := loader.LoadAll()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No levels found.")
		return nil
	}

	fmt.Printf("  %-3s  %-16s  %-22s  %-7s  %6s  %7s  %6s  %4s\n",
		"#", "ID", "Name", "Size", "Guards", "Cameras", "Lasers", "Loot")
	for i, l := range all {
		fmt.Printf("  %-3d  %-16s  %-22s  %-7s  %6d  %7d  %6d  %4d\n",
			i+1, l.ID, l.Name, fmt.Sprintf("%dx%d", l.Cols, l.Rows),
			len(l.Guards), len(l.Cameras), len(l.Lasers), len(l.Loot))
	}

	fmt.Println()
	fmt.Println("Run 'heist play --level <#>' to start on a level.")
	return nil
}

func runValidate(_ *cobra.Command, args []string) error {
	count := 0
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}

		var loader *levels.Loader
		var files []string
		if info.IsDir() {
			loader = levels.NewLoader(arg)
			if files, err = loader.Files(); err != nil {
				return err
			}
		} else {
			loader = levels.NewLoader(filepath.Dir(arg))
			files = []string{filepath.Base(arg)}
		}

		for _, f := range files {
			l, err := loader.LoadFile(f)
			if err != nil {
				return err
			}
			fmt.Printf("ok  %s  (%s, %dx%d)\n", l.FilePath, l.Name, l.Cols, l.Rows)
			count++
		}
	}

	fmt.Printf("%d level(s) valid\n", count)
	return nil
}
