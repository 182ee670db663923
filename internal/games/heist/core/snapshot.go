package core

// Status is the session's position in the level lifecycle.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"   // partner left; resume or restart
	StatusCaught   Status = "caught"   // alert saturated; restart only
	StatusWon      Status = "won"      // level cleared, another follows
	StatusComplete Status = "complete" // last campaign level cleared
)

// Terminal reports whether the level attempt has ended.
func (s Status) Terminal() bool {
	return s == StatusCaught || s == StatusWon || s == StatusComplete
}

// ObserverView is a guard or camera as presented to a renderer.
type ObserverView struct {
	Observer
	Kind      ThreatKind
	Detecting bool
}

// LaserView is a laser as presented to a renderer.
type LaserView struct {
	A, B   Vec
	Active bool
}

// Snapshot is the read-only presentation state after a tick.
type Snapshot struct {
	Tick      uint64
	Level     int
	LevelName string
	Grid      *TileGrid // immutable for the life of the level

	Hero    Hero
	Partner *Partner

	Observers []ObserverView
	Lasers    []LaserView
	Loot      []LootItem
	Exit      Vec

	Alert      float64
	AlertState AlertState
	Detection  Detection
	Score      int
	Collected  int
	TotalLoot  int
	Status     Status
}

// Snapshot captures the current state without advancing it.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       s.tick,
		Level:      s.ordinal,
		LevelName:  s.level.Name,
		Grid:       s.grid,
		Hero:       s.hero,
		Exit:       s.exit,
		Alert:      s.alert.Level(),
		AlertState: s.alert.State(),
		Detection:  s.lastDetection,
		Score:      s.score,
		TotalLoot:  len(s.loot),
		Status:     s.status,
	}
	if s.partner != nil {
		p := *s.partner
		snap.Partner = &p
	}

	snap.Observers = make([]ObserverView, 0, len(s.guards)+len(s.cameras))
	for _, g := range s.guards {
		snap.Observers = append(snap.Observers, ObserverView{Observer: g.Observer(), Kind: ThreatGuard, Detecting: g.Detecting()})
	}
	for _, c := range s.cameras {
		snap.Observers = append(snap.Observers, ObserverView{Observer: c.Observer(), Kind: ThreatCamera, Detecting: c.Detecting()})
	}
	snap.Lasers = make([]LaserView, len(s.lasers))
	for i, l := range s.lasers {
		snap.Lasers[i] = LaserView{A: l.A, B: l.B, Active: l.Active}
	}

	snap.Loot = make([]LootItem, len(s.loot))
	copy(snap.Loot, s.loot)
	for _, it := range s.loot {
		if it.Collected {
			snap.Collected++
		}
	}
	return snap
}
