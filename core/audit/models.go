package audit

import "time"

// MaxEntries caps the trail; the oldest entries are dropped first.
const MaxEntries = 500

// SystemActor is recorded when nobody is logged in.
const SystemActor = "system"

type Entry struct {
	Timestamp time.Time `json:"timestamp"` // UTC
	Action    string    `json:"action"`
	User      string    `json:"user"`
}
