// Package store persists lead snapshots locally so the CLI can filter and
// export the most recent scrape result without refetching.
package store

import (
	"context"
	"time"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
)

// Snapshot is one captured company list.
type Snapshot struct {
	ID      string               `json:"id"`
	Query   model.ScrapeRequest  `json:"query"`
	Leads   []model.BusinessLead `json:"leads"`
	TakenAt time.Time            `json:"taken_at"`
}

// Store defines the snapshot persistence interface.
type Store interface {
	// SaveSnapshot persists a captured lead list, preserving order.
	SaveSnapshot(ctx context.Context, query model.ScrapeRequest, leads []model.BusinessLead) (*Snapshot, error)
	// LatestSnapshot returns the most recent snapshot, or nil when none exist.
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
	// ListSnapshots returns snapshot metadata newest-first, without leads.
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)

	Migrate(ctx context.Context) error
	Close() error
}
