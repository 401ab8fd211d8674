package models

import "time"

// WatchHistoryEntry links a user to a video they watched. The video catalog
// itself lives in another service; only the relation is tracked here.
type WatchHistoryEntry struct {
	UserID    string
	VideoID   string
	WatchedAt time.Time
}
