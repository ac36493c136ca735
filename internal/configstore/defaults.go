// internal/configstore/defaults.go
package configstore

import (
	"github.com/chedoparti/clubsched/internal/pricing"
	"github.com/chedoparti/clubsched/internal/schedule"
)

func enabledDay(ranges ...schedule.TimeRange) schedule.DaySchedule {
	enabled := true
	return schedule.DaySchedule{Enabled: &enabled, Ranges: ranges}
}

// DefaultSchedule is the seed schedule served before any write: weekdays
// 08:00-23:00 with a Friday midday break, shorter weekend hours.
func DefaultSchedule() schedule.InstitutionSchedule {
	return schedule.InstitutionSchedule{
		Days: map[string]schedule.DaySchedule{
			schedule.DayLunes:     enabledDay(schedule.TimeRange{OpenTime: "08:00", CloseTime: "23:00"}),
			schedule.DayMartes:    enabledDay(schedule.TimeRange{OpenTime: "08:00", CloseTime: "23:00"}),
			schedule.DayMiercoles: enabledDay(schedule.TimeRange{OpenTime: "08:00", CloseTime: "23:00"}),
			schedule.DayJueves:    enabledDay(schedule.TimeRange{OpenTime: "08:00", CloseTime: "23:00"}),
			schedule.DayViernes: enabledDay(
				schedule.TimeRange{OpenTime: "08:00", CloseTime: "12:00"},
				schedule.TimeRange{OpenTime: "14:00", CloseTime: "23:00"},
			),
			schedule.DaySabado:  enabledDay(schedule.TimeRange{OpenTime: "09:00", CloseTime: "22:00"}),
			schedule.DayDomingo: enabledDay(schedule.TimeRange{OpenTime: "09:00", CloseTime: "21:00"}),
		},
	}
}

// DefaultPricing is the seed pricing configuration served before any write.
func DefaultPricing() pricing.Config {
	padelPeak, padelWeekend := 1.3, 1.2
	tenisPeak, tenisWeekend := 1.2, 1.1

	return pricing.Config{
		Sports: map[string]pricing.SportRates{
			"Padel": {BasePrice: 2500, PeakHourMultiplier: padelPeak, WeekendMultiplier: padelWeekend},
			"Tenis": {BasePrice: 1800, PeakHourMultiplier: tenisPeak, WeekendMultiplier: tenisWeekend},
		},
		PeakHours: pricing.PeakHours{
			Weekdays: []string{"19:00", "20:00", "21:00"},
			Weekends: []string{"10:00", "11:00", "16:00", "17:00", "18:00"},
		},
		CourtSpecific: map[string]pricing.CourtRates{
			"1": {BasePrice: 2500, Multipliers: pricing.CourtMultipliers{Peak: &padelPeak, Weekend: &padelWeekend}},
			"2": {BasePrice: 2500, Multipliers: pricing.CourtMultipliers{Peak: &padelPeak, Weekend: &padelWeekend}},
			"3": {BasePrice: 1800, Multipliers: pricing.CourtMultipliers{Peak: &tenisPeak, Weekend: &tenisWeekend}},
			"4": {BasePrice: 1800, Multipliers: pricing.CourtMultipliers{Peak: &tenisPeak, Weekend: &tenisWeekend}},
		},
	}
}
