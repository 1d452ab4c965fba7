// Package milestone classifies score submissions against the pre-write
// leaderboard state and carries the resulting notification payload.
package milestone

import (
	"github.com/inmeta/pitwall/internal/domain/laptime"
)

// Kind is a submission classification. At most one kind applies per
// submission; KindNone means nothing noteworthy happened.
type Kind string

const (
	KindNone          Kind = "none"
	KindPersonalBest  Kind = "personal_best"
	KindOverallRecord Kind = "overall_record"
	KindFirstTime     Kind = "first_time"
)

// Milestone is the payload handed to the notification channel.
type Milestone struct {
	Kind       Kind
	PlayerID   string
	PlayerName string
	ImageURL   string
	Time       laptime.LapTime
}

// FormattedTime renders the milestone's lap time for display.
func (m Milestone) FormattedTime() string {
	return m.Time.Format()
}

// Classify decides the milestone kind for a submitted lap time, evaluated
// against state read before the upsert. First matching rule wins:
//
//  1. the player had a previous time and beat it  -> personal best
//  2. a field best existed and the time beats it  -> overall record
//  3. the player had no previous time             -> first recorded time
//  4. otherwise                                   -> none
//
// previous is the player's own pre-write time (nil when this is their first
// submission); fieldBest is the pre-write best across all players (nil when
// the board was empty).
func Classify(submitted laptime.LapTime, previous, fieldBest *laptime.LapTime) Kind {
	switch {
	case previous != nil && submitted.Faster(*previous):
		return KindPersonalBest
	case fieldBest != nil && submitted.Faster(*fieldBest):
		return KindOverallRecord
	case previous == nil:
		return KindFirstTime
	default:
		return KindNone
	}
}
