package core

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Level)
		code   string
	}{
		{"valid", func(*Level) {}, ""},
		{"zero size", func(l *Level) { l.Cols = 0 }, "BAD_SIZE"},
		{"wall outside", func(l *Level) { l.Walls = append(l.Walls, T(10, 2)) }, "WALL_OUT_OF_BOUNDS"},
		{"start outside", func(l *Level) { l.Start = T(-1, 2) }, "START_OUT_OF_BOUNDS"},
		{"start in wall", func(l *Level) { l.Start = T(0, 0) }, "START_IN_WALL"},
		{"exit outside", func(l *Level) { l.Exit = T(3, 8) }, "EXIT_OUT_OF_BOUNDS"},
		{"exit in wall", func(l *Level) { l.Exit = T(9, 3) }, "EXIT_IN_WALL"},
		{"empty patrol", func(l *Level) { l.Guards = []GuardSpec{{Speed: 1}} }, "EMPTY_PATROL"},
		{"negative speed", func(l *Level) { l.Guards = []GuardSpec{{Path: []Tile{T(2, 2)}, Speed: -1}} }, "BAD_SPEED"},
		{"waypoint outside", func(l *Level) { l.Guards = []GuardSpec{{Path: []Tile{T(2, 2), T(12, 2)}, Speed: 1}} }, "WAYPOINT_OUT_OF_BOUNDS"},
		{"loot outside", func(l *Level) { l.Loot = []LootSpec{{At: T(2, 20)}} }, "LOOT_OUT_OF_BOUNDS"},
		{"unknown loot", func(l *Level) { l.Loot = []LootSpec{{At: T(2, 2), Kind: LootKind(42)}} }, "UNKNOWN_LOOT"},
		{"camera outside", func(l *Level) { l.Cameras = []CameraSpec{{At: Vec{X: 11, Y: 1}, View: 3}} }, "CAMERA_OUT_OF_BOUNDS"},
		{"camera blind", func(l *Level) { l.Cameras = []CameraSpec{{At: Vec{X: 5, Y: 1}}} }, "BAD_CAMERA"},
		{"laser outside", func(l *Level) { l.Lasers = []LaserSpec{{From: Vec{X: 1, Y: 1}, To: Vec{X: 1, Y: 9}}} }, "LASER_OUT_OF_BOUNDS"},
		{"laser zero length", func(l *Level) { l.Lasers = []LaserSpec{{From: Vec{X: 2, Y: 2}, To: Vec{X: 2, Y: 2}}} }, "BAD_LASER"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl := room()
			tc.mutate(&lvl)
			err := Validate(lvl)

			if tc.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, expected nil", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, expected ValidationError", err)
			}
			if ve.Code != tc.code {
				t.Errorf("Code = %s, expected %s (%s)", ve.Code, tc.code, ve.Message)
			}
		})
	}
}

func TestValidateAllowsWaypointInWall(t *testing.T) {
	lvl := room()
	lvl.Guards = []GuardSpec{{Path: []Tile{T(2, 2), T(0, 2)}, Speed: 1}}
	if err := Validate(lvl); err != nil {
		t.Errorf("Validate() = %v, guards may walk through walls", err)
	}
}

func TestLootKinds(t *testing.T) {
	tests := []struct {
		name  string
		kind  LootKind
		value int
	}{
		{"bag", LootBag, 100},
		{"gem", LootGem, 300},
		{"laptop", LootLaptop, 500},
		{"painting", LootPainting, 800},
		{"crown", LootCrown, 2000},
	}
	for _, tc := range tests {
		k, ok := ParseLootKind(tc.name)
		if !ok || k != tc.kind {
			t.Errorf("ParseLootKind(%q) = %v, %v", tc.name, k, ok)
		}
		if k.Value() != tc.value || k.String() != tc.name {
			t.Errorf("%s: Value() = %d, String() = %q", tc.name, k.Value(), k.String())
		}
	}

	if k, ok := ParseLootKind(""); !ok || k != LootBag {
		t.Errorf("ParseLootKind(\"\") = %v, %v; expected bag", k, ok)
	}
	if _, ok := ParseLootKind("diamond"); ok {
		t.Error("ParseLootKind(diamond) should fail")
	}
	if LootKind(9).Value() != 0 || LootKind(9).Valid() {
		t.Error("out-of-range kind should be invalid and worthless")
	}
}
