package levels_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heist/internal/games/heist/core"
	"github.com/vovakirdan/tui-heist/internal/games/heist/levels"
)

const tinyLevel = `id: tiny
name: Tiny
layout:
  - "#####"
  - "#...#"
  - "#####"
start: [1, 1]
exit: [3, 1]
loot:
  - { at: [2, 1] }
`

func writeLevel(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func TestEmbeddedCampaign(t *testing.T) {
	c, err := levels.LoadCampaign("", nil)
	if err != nil {
		t.Fatalf("LoadCampaign() error = %v", err)
	}
	if c.Count() != 8 {
		t.Fatalf("Count() = %d, expected 8", c.Count())
	}

	expected := []string{
		"The Suburbs", "City Lockup", "Museum Heist", "Bank Vault",
		"Art Gallery", "Casino Night", "Mansion", "Final Heist",
	}
	for i, name := range c.Names() {
		if name != expected[i] {
			t.Errorf("level %d name = %q, expected %q", i+1, name, expected[i])
		}
	}
}

func TestEmbeddedLevelOne(t *testing.T) {
	c, err := levels.LoadCampaign("", nil)
	if err != nil {
		t.Fatalf("LoadCampaign() error = %v", err)
	}
	lvl, err := c.Level(1)
	if err != nil {
		t.Fatalf("Level(1) error = %v", err)
	}

	if lvl.Cols != 15 || lvl.Rows != 13 {
		t.Errorf("size = %dx%d, expected 15x13", lvl.Cols, lvl.Rows)
	}
	if len(lvl.Walls) != 70 {
		t.Errorf("walls = %d, expected 70", len(lvl.Walls))
	}
	if lvl.Start != core.T(1, 11) || lvl.Exit != core.T(13, 11) {
		t.Errorf("start/exit = %v/%v", lvl.Start, lvl.Exit)
	}
	if len(lvl.Loot) != 2 || lvl.Loot[1].Kind != core.LootGem {
		t.Errorf("loot = %+v, expected bag and gem", lvl.Loot)
	}
	if len(lvl.Guards) != 1 || lvl.Guards[0].Speed != 0.7 || len(lvl.Guards[0].Path) != 4 {
		t.Errorf("guards = %+v", lvl.Guards)
	}
}

func TestCampaignOrdinals(t *testing.T) {
	c, err := levels.LoadCampaign("", nil)
	if err != nil {
		t.Fatalf("LoadCampaign() error = %v", err)
	}

	first, _ := c.Level(1)
	wrapped, err := c.Level(9)
	if err != nil {
		t.Fatalf("Level(9) error = %v", err)
	}
	if wrapped.ID != first.ID {
		t.Errorf("Level(9) = %s, expected wrap to %s", wrapped.ID, first.ID)
	}

	if _, err := c.Level(0); err == nil {
		t.Error("Level(0) should fail")
	}
}

func TestEmptyCampaign(t *testing.T) {
	c := levels.NewCampaign(nil)
	if _, err := c.Level(1); !errors.Is(err, core.ErrNoLevels) {
		t.Errorf("Level(1) error = %v, expected ErrNoLevels", err)
	}

	if _, err := levels.LoadCampaign(t.TempDir(), nil); !errors.Is(err, core.ErrNoLevels) {
		t.Errorf("LoadCampaign(empty dir) error = %v, expected ErrNoLevels", err)
	}
}

func TestLoaderFailsOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "b.yaml", tinyLevel)
	writeLevel(t, dir, "a.yaml", "id: broken\nlayout: [\"###\"]\nstart: [1, 1]\nexit: [0, 0]\n")
	writeLevel(t, dir, "notes.txt", "not a level")

	loader := levels.NewLoader(dir)
	files, err := loader.Files()
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Files() = %v, expected the two yaml files", files)
	}

	lvls, err := loader.LoadAll()
	var verr core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("LoadAll() = %+v, %v, expected ValidationError", lvls, err)
	}
	if verr.Code != "START_OUT_OF_BOUNDS" {
		t.Errorf("Code = %s, expected START_OUT_OF_BOUNDS", verr.Code)
	}
	if !strings.Contains(err.Error(), "a.yaml") {
		t.Errorf("error %q should name the file", err)
	}

	lvl, err := loader.LoadFile("b.yaml")
	if err != nil {
		t.Fatalf("LoadFile(b.yaml) error = %v", err)
	}
	if lvl.ID != "tiny" || lvl.FilePath != filepath.Join(dir, "b.yaml") {
		t.Errorf("LoadFile(b.yaml) = %q from %q", lvl.ID, lvl.FilePath)
	}
}

func TestLoadCampaignRejectsMalformedLevel(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "01.yaml", tinyLevel)
	writeLevel(t, dir, "02.yaml", strings.Replace(tinyLevel, "id: tiny", "id: patrol", 1)+
		"guards:\n  - { waypoints: [], speed: 1 }\n")

	var buf bytes.Buffer
	c, err := levels.LoadCampaign(dir, log.New(&buf))
	var verr core.ValidationError
	if !errors.As(err, &verr) || verr.Code != "EMPTY_PATROL" {
		t.Fatalf("LoadCampaign() = %v, %v, expected EMPTY_PATROL", c, err)
	}
	if !strings.Contains(buf.String(), "invalid level") {
		t.Errorf("log = %q, expected the invalid level to be reported", buf.String())
	}

	// Without the bad level the same directory loads.
	if err := os.Remove(filepath.Join(dir, "02.yaml")); err != nil {
		t.Fatal(err)
	}
	c, err = levels.LoadCampaign(dir, nil)
	if err != nil {
		t.Fatalf("LoadCampaign() error = %v", err)
	}
	if c.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", c.Count())
	}
}

func TestLoaderIDFromFilename(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "closet.yml", "layout:\n  - \"....\"\nstart: [0, 0]\nexit: [3, 0]\n")

	lvl, err := levels.NewLoader(dir).LoadByID("closet")
	if err != nil {
		t.Fatalf("LoadByID() error = %v", err)
	}
	if lvl.Cols != 4 || lvl.Rows != 1 {
		t.Errorf("size = %dx%d, expected 4x1", lvl.Cols, lvl.Rows)
	}
}
