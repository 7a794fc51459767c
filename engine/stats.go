package engine

import "time"

// Stats receives engine events. The API exports them as metrics.
type Stats interface {
	RowsLoaded(n int)
	DataUnavailable()
	ScheduleMismatch()
	InvalidOrder()
	Advanced(d time.Duration, rows int)
}

type nopStats struct{}

func (nopStats) RowsLoaded(int) {}

func (nopStats) DataUnavailable() {}

func (nopStats) ScheduleMismatch() {}

func (nopStats) InvalidOrder() {}

func (nopStats) Advanced(time.Duration, int) {}
