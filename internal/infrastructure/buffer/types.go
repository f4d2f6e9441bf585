package buffer

import (
	"time"
)

// Item is a cache prefix whose invalidation has not been delivered yet.
type Item struct {
	Prefix    string    `json:"prefix"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`
}

func (i *Item) normalize() {
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now().UTC()
	}
}
