// Package levels provides level loading for the heist game.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
	"github.com/vovakirdan/tui-heist/internal/games/heist/levels/formats"
)

//go:embed campaign/*.yaml
var campaignFS embed.FS

// Level is a parsed level together with where it came from.
type Level struct {
	core.Level
	FilePath string
}

// Loader handles loading levels from a directory tree.
type Loader struct {
	Root   string
	Logger *log.Logger // Optional, can be nil
	fsys   fs.FS
}

// NewLoader creates a loader rooted at a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root)}
}

// Embedded returns a loader over the built-in campaign.
func Embedded() *Loader {
	sub, err := fs.Sub(campaignFS, "campaign")
	if err != nil {
		panic(err)
	}
	return &Loader{Root: "campaign", fsys: sub}
}

// Files lists every level file under the root in lexical order.
func (l *Loader) Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadAll loads every level under the root, sorted by ID.
// It stops at the first file that fails to parse or validate.
func (l *Loader) LoadAll() ([]Level, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	levels := make([]Level, 0, len(files))
	for _, f := range files {
		level, err := l.LoadFile(f)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Error("invalid level", "file", path.Join(l.Root, f), "err", err)
			}
			return nil, err
		}
		if l.Logger != nil {
			l.Logger.Debug("level loaded", "id", level.ID, "file", level.FilePath)
		}
		levels = append(levels, level)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

// LoadFile loads and validates a single level file relative to the root.
func (l *Loader) LoadFile(name string) (Level, error) {
	full := path.Join(l.Root, name)

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", full, err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(name)))
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", full, err)
	}
	if parsed.ID == "" {
		parsed.ID = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	if err := core.Validate(parsed); err != nil {
		return Level{}, fmt.Errorf("validating file %s: %w", full, err)
	}

	return Level{Level: parsed, FilePath: full}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// Campaign is an ordered list of levels addressed by 1-based ordinal.
// It implements core.LevelSource.
type Campaign struct {
	levels []core.Level
}

// NewCampaign wraps already-loaded levels.
func NewCampaign(levels []Level) *Campaign {
	c := &Campaign{levels: make([]core.Level, len(levels))}
	for i, l := range levels {
		c.levels[i] = l.Level
	}
	return c
}

// LoadCampaign loads the campaign from dir, or the built-in one when dir is empty.
// A single malformed level fails the whole campaign.
func LoadCampaign(dir string, logger *log.Logger) (*Campaign, error) {
	loader := Embedded()
	if dir != "" {
		loader = NewLoader(dir)
	}
	loader.Logger = logger
	levels, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%s: %w", loader.Root, core.ErrNoLevels)
	}
	return NewCampaign(levels), nil
}

// Count returns the number of distinct levels.
func (c *Campaign) Count() int {
	return len(c.levels)
}

// Level returns the level for an ordinal. Ordinals past Count wrap, so
// endless play revisits the campaign.
func (c *Campaign) Level(ordinal int) (core.Level, error) {
	if len(c.levels) == 0 {
		return core.Level{}, core.ErrNoLevels
	}
	if ordinal < 1 {
		return core.Level{}, fmt.Errorf("level ordinal %d out of range", ordinal)
	}
	return c.levels[(ordinal-1)%len(c.levels)], nil
}

// Names returns level names in campaign order.
func (c *Campaign) Names() []string {
	names := make([]string, len(c.levels))
	for i, l := range c.levels {
		names[i] = l.Name
	}
	return names
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (core.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return core.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
