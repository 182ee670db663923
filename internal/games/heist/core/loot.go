package core

import "fmt"

// LootKind is the closed set of collectible items.
type LootKind uint8

const (
	LootBag LootKind = iota
	LootGem
	LootLaptop
	LootPainting
	LootCrown
)

var lootNames = [...]string{"bag", "gem", "laptop", "painting", "crown"}
var lootValues = [...]int{100, 300, 500, 800, 2000}

func (k LootKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("loot(%d)", uint8(k))
	}
	return lootNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k LootKind) Valid() bool {
	return int(k) < len(lootNames)
}

// Value is the score awarded on pickup.
func (k LootKind) Value() int {
	if !k.Valid() {
		return 0
	}
	return lootValues[k]
}

// ParseLootKind maps a level-file name to a kind. An empty name is a bag.
func ParseLootKind(s string) (LootKind, bool) {
	if s == "" {
		return LootBag, true
	}
	for i, n := range lootNames {
		if n == s {
			return LootKind(i), true
		}
	}
	return 0, false
}

// LootItem is one collectible in a running level. Collected never goes back to false.
type LootItem struct {
	Pos       Vec
	Kind      LootKind
	Collected bool
}
