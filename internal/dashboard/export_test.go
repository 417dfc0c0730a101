package dashboard

import "time"

// SetNow pins the clock used by SalesMetrics.
func (s *Service) SetNow(now func() time.Time) {
	s.nowFunc = now
}
