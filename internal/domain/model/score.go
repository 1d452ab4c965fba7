// Package model contains domain models passed between layers.
package model

import (
	"github.com/inmeta/pitwall/internal/domain/laptime"
)

// Score is a player's single stored lap time. The store keeps at most one
// row per player, so every submission is an upsert. The embedded LapTime
// flattens into the row's min/sec/ms columns and JSON fields.
type Score struct {
	ID       int64  `json:"id"`       // store-assigned
	PlayerID string `json:"playerId"` // unique per row
	laptime.LapTime
}

// Player is a roster entry owned by the external directory. The core only
// reads point-in-time snapshots; creation and updates happen in the CMS.
type Player struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// DisplayName returns the "{first} {last}" form used in notifications.
func (p Player) DisplayName() string {
	return p.FirstName + " " + p.LastName
}
