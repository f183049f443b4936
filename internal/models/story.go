// Package models defines the client-side data models for storysync.
package models

import "time"

// Status tracks the sync lifecycle of a queued submission. The transition is
// monotone: pending -> synced, never back.
type Status string

const (
	StatusPending Status = "pending"
	StatusSynced  Status = "synced"
)

// PendingStory is a story submission held in the local queue until the
// remote API confirms it.
type PendingStory struct {
	// TempID is the locally assigned, monotone queue key. It is distinct from
	// any server-issued story id and is never reused.
	TempID int64

	// ClientRef is a stable UUID attached to every replay of this submission
	// so the server can recognize duplicates.
	ClientRef string

	// Description is the story text. Required, non-empty.
	Description string

	// Photo holds the attachment in its text-encoded storage form
	// (see encodex). Decoded back to bytes before transmission.
	Photo string

	// Lat and Lon are optional coordinates.
	Lat *float64
	Lon *float64

	Status    Status
	CreatedAt time.Time

	// SyncedAt is set at the moment Status transitions to synced.
	SyncedAt *time.Time

	// LastError records the most recent replay failure, for observability.
	LastError string
}

// Story is a confirmed story as returned by the remote API, persisted locally
// when the user bookmarks it.
type Story struct {
	ID          string
	Name        string
	Description string
	PhotoURL    string
	CreatedAt   time.Time
	Lat         *float64
	Lon         *float64
}
