package models

// Snapshot is the unit of synchronization: the three collections plus the
// version stamp. The whole snapshot is always read, written and compared
// atomically; there is no per-record versioning. LastUpdated is an opaque
// token (normally an RFC 3339 timestamp) compared only for inequality.
type Snapshot struct {
	Users       []User        `json:"users"`
	Subjects    []Subject     `json:"subjects"`
	Schedule    []ClassPeriod `json:"schedule"`
	LastUpdated string        `json:"lastUpdated"`
}

// Clone returns a deep copy so callers can hand snapshots out without readers
// observing later in-place mutations.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{LastUpdated: s.LastUpdated}
	if s.Users != nil {
		out.Users = make([]User, len(s.Users))
		copy(out.Users, s.Users)
	}
	if s.Subjects != nil {
		out.Subjects = make([]Subject, len(s.Subjects))
		copy(out.Subjects, s.Subjects)
	}
	if s.Schedule != nil {
		out.Schedule = make([]ClassPeriod, len(s.Schedule))
		copy(out.Schedule, s.Schedule)
	}
	return out
}

// Normalize replaces nil collections with empty slices. Remote documents may
// omit any of the three arrays; consumers always see non-nil slices.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Subjects == nil {
		s.Subjects = []Subject{}
	}
	if s.Schedule == nil {
		s.Schedule = []ClassPeriod{}
	}
}
