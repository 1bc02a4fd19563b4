package feed

// memoKey identifies the inputs of a projection.
type memoKey struct {
	version   uint64
	count     int
	filter    string
	sortKey   SortKey
	ex        *Exclusions
	exVersion uint64
}

// Memo caches the last projection so repeated renders with unchanged inputs
// reuse the previous result.
type Memo struct {
	projector    Projector
	valid        bool
	key          memoKey
	out          []UserRecord
	computations int
}

// NewMemo returns a memo projecting with p.
func NewMemo(p Projector) *Memo {
	return &Memo{projector: p}
}

// Get returns the projection of state's records after removing excluded
// ones. It recomputes only when the record version, filter, sort key or
// exclusion set (identity or contents) changed since the previous call.
func (m *Memo) Get(state State, filter string, key SortKey, ex *Exclusions) []UserRecord {
	k := memoKey{
		version: state.Version,
		count:   len(state.Records),
		filter:  filter,
		sortKey: key,
		ex:      ex,
	}
	if ex != nil {
		k.exVersion = ex.Version()
	}
	if m.valid && m.key == k {
		return m.out
	}

	m.out = m.projector.Project(ex.Apply(state.Records), filter, key)
	m.key = k
	m.valid = true
	m.computations++
	return m.out
}

// Invalidate forces the next Get to recompute.
func (m *Memo) Invalidate() {
	m.valid = false
}

// Computations returns how many times the projection was actually run.
func (m *Memo) Computations() int {
	return m.computations
}
