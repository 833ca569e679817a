package records

import "time"

// Store owns the ordered sample sequence for one selected date. For today it
// is the tail of yesterday's archive followed by the rolling file, bridging
// sessions that cross midnight. Append order from the files is trusted; the
// store never re-sorts.
type Store struct {
	paths    Paths
	date     time.Time
	samples  []Sample
	consumed int // rows ingested from the rolling file

	now func() time.Time // test seam
}

// NewStore creates a store for the given date and loads its samples.
// Missing or unreadable files yield an empty store, not an error.
func NewStore(paths Paths, date time.Time) *Store {
	s := &Store{paths: paths, date: midnight(date), now: time.Now}
	s.load()
	return s
}

// Date returns the store's selected date.
func (s *Store) Date() time.Time { return s.date }

// Samples returns the current snapshot. The returned slice is only appended
// to, never rewritten.
func (s *Store) Samples() []Sample { return s.samples }

// IsToday reports whether the store's date is the current date.
func (s *Store) IsToday() bool { return SameDate(s.date, s.now()) }

func (s *Store) load() {
	s.samples = nil
	s.consumed = 0

	if !s.IsToday() {
		samples, err := ParseFile(s.paths.ArchivePath(s.date))
		if err == nil {
			s.samples = samples
		}
		return
	}

	yesterday := s.date.AddDate(0, 0, -1)
	if tail, err := ParseFile(s.paths.ArchivePath(yesterday)); err == nil {
		s.samples = tail
	}
	rolling, err := ParseFile(s.paths.RollingPath)
	if err != nil {
		return
	}
	s.samples = append(s.samples, rolling...)
	s.consumed = len(rolling)
}

// Refresh tails the rolling file, appending rows not yet consumed. It is a
// no-op unless the store's date is today, and appends nothing when the file
// has not grown. Returns the number of rows appended.
func (s *Store) Refresh() int {
	if !s.IsToday() {
		return 0
	}
	fresh, err := ParseFileFrom(s.paths.RollingPath, s.consumed)
	if err != nil || len(fresh) == 0 {
		return 0
	}
	s.samples = append(s.samples, fresh...)
	s.consumed += len(fresh)
	return len(fresh)
}
