package model

// Player is a participant. An empty Passphrase denotes a soft-deleted player:
// RemovePlayer blanks the passphrase and detaches the player from every team,
// but never removes the row (see internal/engine's global handler).
type Player struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	DiscordID  *string `json:"discord_id,omitempty"`
	Passphrase string  `json:"passphrase"`
	SessionID  *uint64 `json:"session_id,omitempty"`
}

// Deleted reports whether this player has been soft-deleted.
func (p *Player) Deleted() bool { return p.Passphrase == "" }
