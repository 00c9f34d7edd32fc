package models

import "time"

// RecentDocument is a document the user opened or saved recently
type RecentDocument struct {
	Path       string
	Name       string
	LastOpened time.Time
	OpenCount  int
	LastAction string // "loaded" or "saved"
}
