package storage

import "time"

type Lookup struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Dependencies int       `json:"dependencies"`
	LookedUpAt   time.Time `json:"looked_up_at"`
}
