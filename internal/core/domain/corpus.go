package domain

import "time"

// CorpusStatus describes the currently loaded corpus.
type CorpusStatus struct {
	Loaded   bool      `json:"loaded"`
	Entries  int       `json:"entries"`
	Terms    int       `json:"terms"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}
