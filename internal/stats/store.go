package stats

import (
	"context"

	"github.com/tatianab/rigged-rps/internal/models"
)

// Counter field names inside the stats document.
const (
	FieldTotalGames   = "totalGames"
	FieldCPUWins      = "cpuWins"
	FieldVisitorCount = "visitorCount"
)

// Document is a counters record. A nil Document means the record does not
// exist yet.
type Document map[string]int64

// Store is the capability the notifier needs from a counter backend.
// Increment must be atomic on the backend so concurrent sessions never lose
// updates.
type Store interface {
	Increment(ctx context.Context, key, field string) error
	// Set creates the given fields if they are missing. Existing counters
	// are left alone so a late initialisation never rolls back increments.
	Set(ctx context.Context, key string, fields Document) error
	// Subscribe delivers the current document and every later change until
	// the returned cancel func is called.
	Subscribe(ctx context.Context, key string, onUpdate func(Document), onError func(error)) (cancel func(), err error)
}

// ToGlobalStats maps a document onto the display struct.
func (d Document) ToGlobalStats() models.GlobalStats {
	return models.GlobalStats{
		TotalGames:   d[FieldTotalGames],
		CPUWins:      d[FieldCPUWins],
		VisitorCount: d[FieldVisitorCount],
	}
}

func zeroDocument() Document {
	return Document{FieldTotalGames: 0, FieldCPUWins: 0, FieldVisitorCount: 0}
}
