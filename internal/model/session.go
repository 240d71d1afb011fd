package model

import "github.com/oocraftrabbitoo/truinlag/internal/config"

// SessionMode selects the session's ruleset variant.
type SessionMode int

const (
	Traditional SessionMode = iota
	Gfrorefurz
)

// Session is one instance of a game, with its own teams and config overrides
// layered on top of config.Default().
type Session struct {
	ID       uint64           `json:"id"`
	Name     string           `json:"name"`
	Mode     SessionMode      `json:"mode"`
	Overrides config.Overrides `json:"config_overrides"`
	TeamIDs   []uint64         `json:"team_ids"`
	InGame    *bool            `json:"in_game,omitempty"`
}

// Config returns the session's effective config: config.Default() overlaid
// with this session's overrides.
func (s *Session) Config() config.Config {
	return config.Default().Overlay(s.Overrides)
}
