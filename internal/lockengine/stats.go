package lockengine

import "time"

// QueueStats are owner independent exit queue statistics
type QueueStats struct {
	// NextExitDate is the earliest scheduled exit, or the exit date a lock
	// queued at now would get when the queue is empty
	NextExitDate   time.Time
	CooldownPeriod time.Duration
	FeeBps         uint32
	QueueDepth     int
}

func (r *Registry) QueueStats(now time.Time) QueueStats {
	params := r.params.Load()
	depth := r.queue.depth()

	stats := QueueStats{
		NextExitDate:   now.Add(params.CooldownPeriod),
		CooldownPeriod: params.CooldownPeriod,
		FeeBps:         params.Fee.FeeBps(depth),
		QueueDepth:     depth,
	}
	if earliest, ok := r.queue.earliest(); ok {
		stats.NextExitDate = earliest.ScheduledExitAt
	}

	return stats
}
