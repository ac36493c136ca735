// internal/pricing/pricing.go
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DefaultSport is the fallback sport configuration when the requested sport
// has none.
const DefaultSport = "Padel"

// defaultBasePrice applies when no sport configuration resolves at all.
const defaultBasePrice = 2000

// SportRates is the club-wide rate configuration for one sport. Zero values
// mean "not configured" and fall back to engine defaults.
type SportRates struct {
	BasePrice          float64 `json:"basePrice"`
	PeakHourMultiplier float64 `json:"peakHourMultiplier"`
	WeekendMultiplier  float64 `json:"weekendMultiplier"`
}

// PeakHours lists the higher-demand start times. Membership is an exact
// "HH:mm" string match, not a range test.
type PeakHours struct {
	Weekdays []string `json:"weekdays"`
	Weekends []string `json:"weekends"`
}

// CourtMultipliers overrides the sport-level multipliers field by field; a nil
// field keeps the sport-level value.
type CourtMultipliers struct {
	Peak    *float64 `json:"peak,omitempty"`
	Weekend *float64 `json:"weekend,omitempty"`
}

// CourtRates is a per-court pricing override.
type CourtRates struct {
	BasePrice   float64          `json:"basePrice"`
	Multipliers CourtMultipliers `json:"multipliers"`
}

// Config is the full pricing configuration, read fresh on every quote.
type Config struct {
	Sports        map[string]SportRates `json:"sports"`
	PeakHours     PeakHours             `json:"peakHours"`
	CourtSpecific map[string]CourtRates `json:"courtSpecific"`
}

// Multipliers is a resolved peak/weekend multiplier pair.
type Multipliers struct {
	Peak    float64 `json:"peak"`
	Weekend float64 `json:"weekend"`
}

// MultiplierSet reports the multipliers actually applied to a quote alongside
// everything that was available for the court.
type MultiplierSet struct {
	Applied   Multipliers `json:"applied"`
	Available Multipliers `json:"available"`
}

// LineItems is the human-readable trace of a quote. Advisory output for
// display; the numbers in Breakdown are authoritative.
type LineItems struct {
	Base     string `json:"base"`
	Peak     string `json:"peak,omitempty"`
	Weekend  string `json:"weekend,omitempty"`
	Duration string `json:"duration"`
}

// Breakdown is the priced result of a reservation quote.
type Breakdown struct {
	BasePrice     float64       `json:"basePrice"`
	HourlyRate    float64       `json:"hourlyRate"`
	TotalPrice    int64         `json:"totalPrice"`
	DurationHours float64       `json:"durationHours"`
	IsPeakHour    bool          `json:"isPeakHour"`
	IsWeekend     bool          `json:"isWeekend"`
	Multipliers   MultiplierSet `json:"multipliers"`
	LineItems     LineItems     `json:"breakdown"`
}

// Quote prices a reservation from the layered rule set: sport base rate,
// per-court override, peak-hour multiplier, weekend multiplier (both stack
// cumulatively), scaled by duration and rounded to the nearest currency unit.
// Unknown sports and courts degrade to defaults; there is no error path.
func Quote(courtID, sport, date, clock string, durationMinutes int, cfg Config) Breakdown {
	sportRates, ok := cfg.Sports[sport]
	if !ok {
		sportRates = cfg.Sports[DefaultSport]
	}

	basePrice := sportRates.BasePrice
	if basePrice == 0 {
		basePrice = defaultBasePrice
	}
	multipliers := Multipliers{
		Peak:    sportRates.PeakHourMultiplier,
		Weekend: sportRates.WeekendMultiplier,
	}
	if multipliers.Peak == 0 {
		multipliers.Peak = 1
	}
	if multipliers.Weekend == 0 {
		multipliers.Weekend = 1
	}

	if court, ok := cfg.CourtSpecific[courtID]; ok {
		if court.BasePrice != 0 {
			basePrice = court.BasePrice
		}
		if court.Multipliers.Peak != nil {
			multipliers.Peak = *court.Multipliers.Peak
		}
		if court.Multipliers.Weekend != nil {
			multipliers.Weekend = *court.Multipliers.Weekend
		}
	}

	isWeekend := isWeekendDate(date)

	peakTimes := cfg.PeakHours.Weekdays
	if isWeekend {
		peakTimes = cfg.PeakHours.Weekends
	}
	isPeakHour := containsTime(peakTimes, clock)

	hourlyRate := basePrice
	if isPeakHour {
		hourlyRate *= multipliers.Peak
	}
	if isWeekend {
		hourlyRate *= multipliers.Weekend
	}

	durationHours := float64(durationMinutes) / 60
	totalPrice := int64(math.Round(hourlyRate * durationHours))

	applied := Multipliers{Peak: 1, Weekend: 1}
	if isPeakHour {
		applied.Peak = multipliers.Peak
	}
	if isWeekend {
		applied.Weekend = multipliers.Weekend
	}

	items := LineItems{
		Base:     fmt.Sprintf("$%s / hora", formatAmount(basePrice)),
		Duration: fmt.Sprintf("%sh x $%s = $%d", formatAmount(durationHours), formatAmount(hourlyRate), totalPrice),
	}
	if isPeakHour {
		items.Peak = fmt.Sprintf("+%d%% hora pico", surchargePercent(multipliers.Peak))
	}
	if isWeekend {
		items.Weekend = fmt.Sprintf("+%d%% fin de semana", surchargePercent(multipliers.Weekend))
	}

	return Breakdown{
		BasePrice:     basePrice,
		HourlyRate:    hourlyRate,
		TotalPrice:    totalPrice,
		DurationHours: durationHours,
		IsPeakHour:    isPeakHour,
		IsWeekend:     isWeekend,
		Multipliers: MultiplierSet{
			Applied:   applied,
			Available: multipliers,
		},
		LineItems: items,
	}
}

// isWeekendDate reports whether a "YYYY-MM-DD" date falls on Saturday or
// Sunday. Unparseable dates count as weekdays.
func isWeekendDate(date string) bool {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	weekday := parsed.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

func containsTime(times []string, clock string) bool {
	for _, t := range times {
		if t == clock {
			return true
		}
	}
	return false
}

func surchargePercent(multiplier float64) int {
	return int(math.Round((multiplier - 1) * 100))
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
