package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// PollFunc is one tick of a background job such as the exit checker or the
// stats poller.
type PollFunc = func(ctx context.Context) error

var pollerLastSuccessGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "poller_last_success_timestamp_seconds",
		Help: "Unix time of the last successful tick per poller",
	},
	[]string{"type"},
)

// RecordPollerDuration wraps poll so every tick lands in the poller duration
// histogram under name. Successful ticks also stamp the last success gauge,
// failing ones are logged with their duration.
func RecordPollerDuration(name string, poll PollFunc) PollFunc {
	return func(ctx context.Context) error {
		started := time.Now()
		err := poll(ctx)
		elapsed := time.Since(started)

		pollerDurationHistogram.WithLabelValues(name, outcome(err != nil).String()).Observe(elapsed.Seconds())
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("poller", name).Dur("elapsed", elapsed).Msg("poll failed")
			return err
		}
		pollerLastSuccessGauge.WithLabelValues(name).Set(float64(time.Now().Unix()))
		return nil
	}
}
