// Package notify delivers milestone messages to the team chat channel.
package notify

import (
	"context"

	"github.com/inmeta/pitwall/internal/domain/milestone"
)

// Notifier posts a single milestone message. Delivery is best-effort;
// callers log failures and move on.
type Notifier interface {
	NotifyMilestone(ctx context.Context, m milestone.Milestone) error
}
