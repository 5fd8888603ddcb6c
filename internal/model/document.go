package model

import "time"

// Document represents one stored PDF in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// StorageKey is the name the content lives under in the blob store; it is
// internal addressing and never part of an API response. OriginalName is
// kept verbatim for display and download naming only.
type Document struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"filename"`
	StorageKey   string    `json:"-"`
	Size         int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}
