// internal/scheduler/audit.go
package scheduler

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/chedoparti/clubsched/internal/configstore"
	"github.com/chedoparti/clubsched/internal/schedule"
)

// NewScheduleAudit builds the nightly audit task. It flags configuration that
// silently produces nothing: ranges whose close time is not after the open
// time (overnight spans are not supported) and enabled days without a single
// slot. Operators otherwise only notice when members cannot book.
func NewScheduleAudit(store configstore.Store) func() {
	return func() {
		ctx := context.Background()
		logger := log.With().Str("component", "schedule_audit").Logger()

		sched, err := store.LoadSchedule(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to load schedule for audit")
			return
		}

		totalSlots := 0
		for _, dayKey := range schedule.Weekdays {
			day, ok := sched.Days[dayKey]
			if !ok || !day.IsEnabled() {
				logger.Debug().Str("day", dayKey).Msg("Day disabled or absent")
				continue
			}

			for _, r := range day.Ranges {
				if r.OpenTime == "" || r.CloseTime == "" {
					logger.Warn().
						Str("day", dayKey).
						Str("open_time", r.OpenTime).
						Str("close_time", r.CloseTime).
						Msg("Range is missing a boundary and will be ignored")
					continue
				}
				open, openErr := schedule.MinutesOfDay(r.OpenTime)
				closeAt, closeErr := schedule.MinutesOfDay(r.CloseTime)
				if openErr != nil || closeErr != nil {
					logger.Warn().
						Str("day", dayKey).
						Str("open_time", r.OpenTime).
						Str("close_time", r.CloseTime).
						Msg("Range has an unparseable boundary and will be ignored")
					continue
				}
				if closeAt <= open {
					logger.Warn().
						Str("day", dayKey).
						Str("open_time", r.OpenTime).
						Str("close_time", r.CloseTime).
						Msg("Range can never produce slots; overnight ranges are not supported")
				}
			}

			slots := schedule.GenerateSlots(&day, 30)
			if len(slots) == 0 {
				logger.Warn().Str("day", dayKey).Msg("Enabled day produces no bookable slots")
				continue
			}
			totalSlots += len(slots)
			logger.Debug().Str("day", dayKey).Int("slots", len(slots)).Msg("Day audited")
		}

		logger.Info().Int("total_slots", totalSlots).Msg("Schedule audit completed")
	}
}
