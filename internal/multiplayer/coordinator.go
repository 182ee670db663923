package multiplayer

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Room pairs a host with at most one guest.
type Room struct {
	Code      string
	Host      Peer
	Guest     Peer
	CreatedAt time.Time

	frames int
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	RoomTimeout   time.Duration // How long a room may wait without a guest
	CleanupPeriod time.Duration // How often to sweep expired rooms
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		RoomTimeout:   10 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// Coordinator owns the open rooms and forwards frames between partners.
// All methods are safe for concurrent use.
type Coordinator struct {
	config   CoordinatorConfig
	recorder RoomRecorder // Optional, can be nil
	logger   *log.Logger
	now      func() time.Time

	mu    sync.Mutex
	rooms map[string]*Room

	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	return &Coordinator{
		config: cfg,
		logger: log.New(io.Discard),
		now:    time.Now,
		rooms:  make(map[string]*Room),
		done:   make(chan struct{}),
	}
}

// SetRecorder sets the optional room recorder.
func (c *Coordinator) SetRecorder(r RoomRecorder) {
	c.recorder = r
}

// SetLogger sets the logger for room lifecycle messages.
func (c *Coordinator) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Start begins sweeping expired rooms in the background.
func (c *Coordinator) Start() {
	go c.cleanupLoop()
}

// Stop ends the sweep and closes every open room.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		defer c.mu.Unlock()
		for code, room := range c.rooms {
			c.closeRoom(code, room, EndShutdown)
		}
	})
}

// Create opens a room hosted by host and returns its code.
func (c *Coordinator) Create(host Peer) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := c.generateUniqueCode()
	c.rooms[code] = &Room{
		Code:      code,
		Host:      host,
		CreatedAt: c.now(),
	}
	host.Send(controlFrame(Message{Type: TypeRoom, Code: code, Role: RoleHost.String()}))
	c.logger.Info("room created", "code", code, "host", host.ID())
	return code
}

// Join adds guest to the room with the given code.
func (c *Coordinator) Join(code string, guest Peer) error {
	code = NormalizeCode(code)

	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if room.Guest != nil || room.Host.ID() == guest.ID() {
		return ErrRoomFull
	}
	room.Guest = guest

	room.Host.Send(controlFrame(Message{Type: TypeJoined, Code: code, Role: RoleHost.String()}))
	guest.Send(controlFrame(Message{Type: TypeJoined, Code: code, Role: RoleGuest.String()}))
	c.logger.Info("room paired", "code", code, "guest", guest.ID())
	return nil
}

// Forward relays a frame from one side of a room to the other.
// Frames sent before a guest arrives are dropped.
func (c *Coordinator) Forward(code string, from PeerID, frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[code]
	if !ok {
		return
	}
	var to Peer
	switch {
	case room.Host.ID() == from:
		to = room.Guest
	case room.Guest != nil && room.Guest.ID() == from:
		to = room.Host
	}
	if to == nil {
		return
	}
	room.frames++
	to.Send(frame)
}

// Leave removes a peer from its room. A departing host closes the room;
// a departing guest frees the seat for someone else.
func (c *Coordinator) Leave(code string, id PeerID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[code]
	if !ok {
		return
	}

	switch {
	case room.Host.ID() == id:
		c.closeRoom(code, room, EndHostLeft)
	case room.Guest != nil && room.Guest.ID() == id:
		room.Guest = nil
		room.Host.Send(controlFrame(Message{Type: TypeLeft, Code: code}))
		c.logger.Info("guest left", "code", code)
	}
}

// closeRoom must be called with the lock held.
func (c *Coordinator) closeRoom(code string, room *Room, reason string) {
	delete(c.rooms, code)
	if room.Guest != nil {
		room.Guest.Send(controlFrame(Message{Type: TypeLeft, Code: code}))
	}

	rec := RoomRecord{
		Code:      code,
		Frames:    room.frames,
		EndReason: reason,
		Duration:  c.now().Sub(room.CreatedAt),
	}
	c.logger.Info("room closed", "code", code, "reason", reason, "frames", rec.Frames)

	// A guest outliving its host may keep playing solo; everything else
	// is disconnected.
	if reason != EndHostLeft {
		room.Host.Close()
		if room.Guest != nil {
			room.Guest.Close()
		}
	}

	if c.recorder != nil {
		// Best effort save, don't block the relay on the database.
		go func() {
			if err := c.recorder.RecordRoom(rec); err != nil {
				c.logger.Warn("cannot record room", "code", code, "err", err)
			}
		}()
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredRooms()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredRooms() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for code, room := range c.rooms {
		// Only expire rooms nobody joined.
		if room.Guest == nil && now.Sub(room.CreatedAt) > c.config.RoomTimeout {
			room.Host.Send(controlFrame(Message{Type: TypeError, Code: code, Error: "room expired"}))
			c.closeRoom(code, room, EndExpired)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateRoomCode()
		if _, exists := c.rooms[code]; !exists {
			return code
		}
	}
}

// GetRoom returns a room by code (for testing/debug).
func (c *Coordinator) GetRoom(code string) (Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rooms[NormalizeCode(code)]
	if !ok {
		return Room{}, false
	}
	return *r, true
}

// RoomCount returns the number of open rooms.
func (c *Coordinator) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}
