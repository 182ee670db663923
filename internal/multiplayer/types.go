// Package multiplayer carries co-op heist events between two players.
// A websocket relay pairs a host and a joiner by room code and forwards their
// frames; a small signaling store lets peers trade connection details.
package multiplayer

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

// PeerID uniquely identifies one connection to the relay.
type PeerID string

// Role is the side a peer plays in a room.
type Role int

const (
	// RoleHost created the room and decides which level is played.
	RoleHost Role = iota
	// RoleGuest joined with the host's code.
	RoleGuest
)

// String returns the role name used in logs and the scores database.
func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleGuest:
		return "guest"
	default:
		return "unknown"
	}
}

// Room end reasons, stored with each room record.
const (
	EndHostLeft = "host_left"
	EndExpired  = "expired"
	EndShutdown = "shutdown"
)

var (
	// ErrRoomNotFound is returned when joining with an unknown code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull is returned when a room already has a guest.
	ErrRoomFull = errors.New("room is full")
)

// RoomRecord summarizes a finished room for persistence.
type RoomRecord struct {
	Code      string
	Frames    int
	EndReason string
	Duration  time.Duration
}

// RoomRecorder persists finished rooms.
// The relay calls it without depending on the storage package.
type RoomRecorder interface {
	RecordRoom(rec RoomRecord) error
}

// Room codes avoid look-alike characters (no I, O, 0 or 1).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 4
)

// generateRoomCode creates a random room code.
func generateRoomCode() string {
	var sb strings.Builder
	limit := big.NewInt(int64(len(codeAlphabet)))
	for range CodeLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// Fall back to the clock; uniqueness is checked by the caller.
			n = big.NewInt(time.Now().UnixNano() % int64(len(codeAlphabet)))
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String()
}

// NormalizeCode upper-cases a typed code and trims surrounding space.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code could have been issued by the relay.
func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		if !ValidCodeRune(r) {
			return false
		}
	}
	return true
}

// ValidCodeRune reports whether r may appear in a room code.
func ValidCodeRune(r rune) bool {
	return strings.ContainsRune(codeAlphabet, r)
}
