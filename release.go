package addons

import "time"

// Release is an append-only audit entry recording that an app's
// configuration changed.
type Release struct {
	Descr     string    `json:"descr"`
	CreatedAt time.Time `json:"created_at"`
}
