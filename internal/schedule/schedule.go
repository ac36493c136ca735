// internal/schedule/schedule.go
package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Slot boundaries must line up across every caller, so the interval is pinned
// regardless of what callers ask for.
const forcedSlotInterval = 30

const minutesPerHour = 60

// Weekday keys as stored in the institution schedule, Monday first.
const (
	DayLunes     = "lunes"
	DayMartes    = "martes"
	DayMiercoles = "miercoles"
	DayJueves    = "jueves"
	DayViernes   = "viernes"
	DaySabado    = "sabado"
	DayDomingo   = "domingo"
)

// Weekdays lists the schedule day keys in calendar order.
var Weekdays = []string{
	DayLunes,
	DayMartes,
	DayMiercoles,
	DayJueves,
	DayViernes,
	DaySabado,
	DayDomingo,
}

// indexed by time.Weekday, so Sunday first
var weekdaysByCalendarIndex = [7]string{
	DayDomingo,
	DayLunes,
	DayMartes,
	DayMiercoles,
	DayJueves,
	DayViernes,
	DaySabado,
}

// TimeRange is one contiguous open/close interval within a day. Times are
// wall-clock "HH:mm" strings at minute resolution.
type TimeRange struct {
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// DaySchedule describes one weekday. A day either carries Ranges, or the
// legacy single-range shorthand with OpenTime/CloseTime set directly on the
// day; Normalize rewrites the legacy shape into Ranges.
type DaySchedule struct {
	Enabled *bool       `json:"enabled,omitempty"`
	Ranges  []TimeRange `json:"ranges,omitempty"`

	// Legacy shorthand, equivalent to a one-element Ranges list.
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// IsEnabled reports whether the day is switched on. An absent flag counts as
// disabled; Normalize sets it explicitly for migrated days.
func (d *DaySchedule) IsEnabled() bool {
	return d != nil && d.Enabled != nil && *d.Enabled
}

func (d *DaySchedule) hasLegacyShape() bool {
	return d != nil && d.OpenTime != "" && d.CloseTime != ""
}

// effectiveRanges resolves the day to its range list, treating the legacy
// shorthand as a single range.
func (d *DaySchedule) effectiveRanges() []TimeRange {
	if d == nil {
		return nil
	}
	if d.Ranges == nil && d.hasLegacyShape() {
		return []TimeRange{{OpenTime: d.OpenTime, CloseTime: d.CloseTime}}
	}
	return d.Ranges
}

// InstitutionSchedule maps weekday keys to day schedules. Keys that are not
// weekday schedules (feriados, malformed entries) are carried through Extra
// untouched so a round trip never loses them.
type InstitutionSchedule struct {
	Days  map[string]DaySchedule
	Extra map[string]json.RawMessage
}

// IsWeekdayKey reports whether key names one of the seven schedule days.
func IsWeekdayKey(key string) bool {
	for _, day := range Weekdays {
		if day == key {
			return true
		}
	}
	return false
}

// DayOfWeek returns the schedule day key for a "YYYY-MM-DD" date.
func DayOfWeek(date string) (string, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return weekdaysByCalendarIndex[int(parsed.Weekday())], nil
}

// MinutesOfDay converts an "HH:mm" string to minutes since midnight.
func MinutesOfDay(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q out of range", clock)
	}
	return hours*minutesPerHour + minutes, nil
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)
}

// roundUpToSlot rounds minutes up to the next slot boundary. Values already on
// a boundary are unchanged.
func roundUpToSlot(minutes int) int {
	remainder := minutes % forcedSlotInterval
	if remainder == 0 {
		return minutes
	}
	return minutes + (forcedSlotInterval - remainder)
}

// Normalize rewrites every legacy-shaped day into the Ranges form. Days that
// already carry Ranges are untouched, as are non-day entries; normalizing an
// already-normalized schedule is a no-op. The returned flag tells the caller
// the result differs from the input and should be persisted.
func Normalize(raw InstitutionSchedule) (InstitutionSchedule, bool) {
	normalized := InstitutionSchedule{Extra: raw.Extra}
	if raw.Days != nil {
		normalized.Days = make(map[string]DaySchedule, len(raw.Days))
	}

	changed := false
	for key, day := range raw.Days {
		if day.Ranges == nil && day.hasLegacyShape() {
			enabled := day.Enabled == nil || *day.Enabled
			day = DaySchedule{
				Enabled: &enabled,
				Ranges:  []TimeRange{{OpenTime: day.OpenTime, CloseTime: day.CloseTime}},
			}
			changed = true
		}
		normalized.Days[key] = day
	}
	return normalized, changed
}

// GenerateSlots lists the bookable start times for a day, ascending and
// deduplicated across overlapping ranges. A nil or disabled day yields no
// slots.
//
// Deprecated semantics: intervalMinutes is accepted for caller compatibility
// but ignored; slots are always generated on 30-minute boundaries.
func GenerateSlots(day *DaySchedule, intervalMinutes int) []string {
	_ = intervalMinutes

	if !day.IsEnabled() {
		return nil
	}

	var slots []string
	seen := make(map[string]struct{})
	for _, r := range day.effectiveRanges() {
		if r.OpenTime == "" || r.CloseTime == "" {
			continue
		}
		openMinutes, err := MinutesOfDay(r.OpenTime)
		if err != nil {
			continue
		}
		closeMinutes, err := MinutesOfDay(r.CloseTime)
		if err != nil {
			continue
		}

		// Half-open interval: the close time itself is never a slot.
		for current := roundUpToSlot(openMinutes); current < closeMinutes; current += forcedSlotInterval {
			slot := formatMinutes(current)
			if _, ok := seen[slot]; ok {
				continue
			}
			seen[slot] = struct{}{}
			slots = append(slots, slot)
		}
	}

	// Zero-padded HH:mm sorts lexically in time order.
	sort.Strings(slots)
	return slots
}

// IsOpen reports whether clock falls inside [open, close) of at least one of
// the day's ranges. Ranges never wrap past midnight.
func IsOpen(day *DaySchedule, clock string) bool {
	if !day.IsEnabled() {
		return false
	}
	at, err := MinutesOfDay(clock)
	if err != nil {
		return false
	}
	for _, r := range day.effectiveRanges() {
		if r.OpenTime == "" || r.CloseTime == "" {
			continue
		}
		openMinutes, err := MinutesOfDay(r.OpenTime)
		if err != nil {
			continue
		}
		closeMinutes, err := MinutesOfDay(r.CloseTime)
		if err != nil {
			continue
		}
		if at >= openMinutes && at < closeMinutes {
			return true
		}
	}
	return false
}

// DaySlots generates the slots for the named day.
func (s InstitutionSchedule) DaySlots(dayKey string, intervalMinutes int) []string {
	day, ok := s.Days[dayKey]
	if !ok {
		return nil
	}
	return GenerateSlots(&day, intervalMinutes)
}

// IsOpenAt checks the operating-hours predicate for the named day.
func (s InstitutionSchedule) IsOpenAt(dayKey, clock string) bool {
	day, ok := s.Days[dayKey]
	if !ok {
		return false
	}
	return IsOpen(&day, clock)
}

// UnmarshalJSON splits the stored blob into weekday schedules and passthrough
// entries. A weekday key whose value does not decode as a day schedule is kept
// verbatim in Extra rather than rejected.
func (s *InstitutionSchedule) UnmarshalJSON(data []byte) error {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	s.Days = make(map[string]DaySchedule)
	s.Extra = nil
	for key, raw := range entries {
		if IsWeekdayKey(key) {
			var day DaySchedule
			if err := json.Unmarshal(raw, &day); err == nil {
				s.Days[key] = day
				continue
			}
		}
		if s.Extra == nil {
			s.Extra = make(map[string]json.RawMessage)
		}
		s.Extra[key] = raw
	}
	return nil
}

// MarshalJSON merges the weekday schedules and passthrough entries back into
// a single object.
func (s InstitutionSchedule) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(s.Days)+len(s.Extra))
	for key, day := range s.Days {
		merged[key] = day
	}
	for key, raw := range s.Extra {
		merged[key] = raw
	}
	return json.Marshal(merged)
}
