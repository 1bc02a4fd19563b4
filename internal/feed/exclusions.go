package feed

// Exclusions is a locally owned set of deleted emails layered over the
// accumulated records. It never touches the accumulator.
type Exclusions struct {
	emails  map[string]struct{}
	version uint64
}

// NewExclusions returns an empty set.
func NewExclusions() *Exclusions {
	return &Exclusions{emails: make(map[string]struct{})}
}

// Add hides the record with email. Adding twice is a no-op.
func (e *Exclusions) Add(email string) {
	if _, ok := e.emails[email]; ok {
		return
	}
	e.emails[email] = struct{}{}
	e.version++
}

// Clear restores every hidden record.
func (e *Exclusions) Clear() {
	if len(e.emails) == 0 {
		return
	}
	e.emails = make(map[string]struct{})
	e.version++
}

// Len returns the number of hidden emails.
func (e *Exclusions) Len() int {
	return len(e.emails)
}

// Version increases on every change to the set.
func (e *Exclusions) Version() uint64 {
	return e.version
}

// Apply returns records minus the hidden ones. Duplicated emails are all
// hidden together. With an empty set, records is returned as is.
func (e *Exclusions) Apply(records []UserRecord) []UserRecord {
	if e == nil || len(e.emails) == 0 {
		return records
	}
	kept := make([]UserRecord, 0, len(records))
	for _, r := range records {
		if _, hidden := e.emails[r.Email]; !hidden {
			kept = append(kept, r)
		}
	}
	return kept
}
