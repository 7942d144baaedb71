package store

import "time"

// SetNowForTest pins the store's clock to a fixed instant. Tests only.
func (s *Store) SetNowForTest(t time.Time) {
	s.now = func() time.Time { return t }
}
