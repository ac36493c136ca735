// internal/api/booking/handlers.go
package booking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chedoparti/clubsched/internal/api/apiutil"
	"github.com/chedoparti/clubsched/internal/configstore"
	"github.com/chedoparti/clubsched/internal/pricing"
	"github.com/chedoparti/clubsched/internal/schedule"
)

const (
	dayQueryKey      = "day"
	dateQueryKey     = "date"
	timeQueryKey     = "time"
	intervalQueryKey = "interval"
)

type Handlers struct {
	store configstore.Store
}

func NewHandlers(store configstore.Store) *Handlers {
	return &Handlers{store: store}
}

type quoteRequest struct {
	CourtID         json.Number `json:"courtId"`
	Sport           string      `json:"sport"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	DurationMinutes int         `json:"durationMinutes"`
}

type slotsResponse struct {
	Day   string   `json:"day"`
	Slots []string `json:"slots"`
}

type openResponse struct {
	Day  string `json:"day"`
	Time string `json:"time"`
	Open bool   `json:"open"`
}

// GET /api/v1/slots?day=lunes | ?date=YYYY-MM-DD [&interval=30]
func (h *Handlers) HandleSlots(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	day, err := dayFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	interval, err := intervalFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sched, err := h.store.LoadSchedule(r.Context())
	if err != nil {
		logger.Error().Err(err).Str("day", day).Msg("Failed to load schedule")
		http.Error(w, "Failed to load schedule", http.StatusInternalServerError)
		return
	}

	slots := sched.DaySlots(day, interval)
	if slots == nil {
		slots = []string{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, slotsResponse{Day: day, Slots: slots}); err != nil {
		logger.Error().Err(err).Str("day", day).Msg("Failed to write slots response")
	}
}

// GET /api/v1/operating-hours/open?day=lunes&time=HH:mm
func (h *Handlers) HandleOpen(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	day, err := dayFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	clock := strings.TrimSpace(r.URL.Query().Get(timeQueryKey))
	if _, err := schedule.MinutesOfDay(clock); err != nil {
		http.Error(w, fmt.Sprintf("%s must be in HH:MM format", timeQueryKey), http.StatusBadRequest)
		return
	}

	sched, err := h.store.LoadSchedule(r.Context())
	if err != nil {
		logger.Error().Err(err).Str("day", day).Msg("Failed to load schedule")
		http.Error(w, "Failed to load schedule", http.StatusInternalServerError)
		return
	}

	resp := openResponse{Day: day, Time: clock, Open: sched.IsOpenAt(day, clock)}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Str("day", day).Msg("Failed to write open response")
	}
}

// POST /api/v1/quotes
func (h *Handlers) HandleQuote(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var req quoteRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := h.store.LoadPricing(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load pricing config")
		http.Error(w, "Failed to load pricing", http.StatusInternalServerError)
		return
	}

	breakdown := pricing.Quote(req.CourtID.String(), req.Sport, req.Date, req.Time, req.DurationMinutes, cfg)
	if err := apiutil.WriteJSON(w, http.StatusOK, breakdown); err != nil {
		logger.Error().Err(err).Str("court_id", req.CourtID.String()).Msg("Failed to write quote response")
	}
}

// GET /api/v1/schedule
func (h *Handlers) HandleScheduleGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	sched, err := h.store.LoadSchedule(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load schedule")
		http.Error(w, "Failed to load schedule", http.StatusInternalServerError)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, sched); err != nil {
		logger.Error().Err(err).Msg("Failed to write schedule response")
	}
}

// PUT /api/v1/schedule — whole-blob replace, then subscribers fire.
func (h *Handlers) HandleScheduleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var sched schedule.InstitutionSchedule
	if err := apiutil.DecodeJSON(r, &sched); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveSchedule(r.Context(), sched); err != nil {
		logger.Error().Err(err).Msg("Failed to save schedule")
		http.Error(w, "Failed to save schedule", http.StatusInternalServerError)
		return
	}

	logger.Info().Int("days", len(sched.Days)).Msg("Schedule updated")
	if err := apiutil.WriteJSON(w, http.StatusOK, sched); err != nil {
		logger.Error().Err(err).Msg("Failed to write schedule response")
	}
}

// GET /api/v1/pricing
func (h *Handlers) HandlePricingGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	cfg, err := h.store.LoadPricing(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load pricing config")
		http.Error(w, "Failed to load pricing", http.StatusInternalServerError)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, cfg); err != nil {
		logger.Error().Err(err).Msg("Failed to write pricing response")
	}
}

// PUT /api/v1/pricing — whole-blob replace.
func (h *Handlers) HandlePricingUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	var cfg pricing.Config
	if err := apiutil.DecodeJSON(r, &cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SavePricing(r.Context(), cfg); err != nil {
		logger.Error().Err(err).Msg("Failed to save pricing config")
		http.Error(w, "Failed to save pricing", http.StatusInternalServerError)
		return
	}

	logger.Info().Int("sports", len(cfg.Sports)).Msg("Pricing updated")
	if err := apiutil.WriteJSON(w, http.StatusOK, cfg); err != nil {
		logger.Error().Err(err).Msg("Failed to write pricing response")
	}
}

func (q quoteRequest) validate() error {
	if q.CourtID.String() == "" {
		return fmt.Errorf("courtId is required")
	}
	if strings.TrimSpace(q.Date) == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := schedule.DayOfWeek(q.Date); err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	if _, err := schedule.MinutesOfDay(q.Time); err != nil {
		return fmt.Errorf("time must be in HH:MM format")
	}
	if q.DurationMinutes <= 0 {
		return fmt.Errorf("durationMinutes must be a positive integer")
	}
	return nil
}

// dayFromQuery resolves the schedule day from an explicit ?day key or from a
// ?date in YYYY-MM-DD form.
func dayFromQuery(r *http.Request) (string, error) {
	day := strings.TrimSpace(r.URL.Query().Get(dayQueryKey))
	if day != "" {
		if !schedule.IsWeekdayKey(day) {
			return "", fmt.Errorf("%s must be one of %s", dayQueryKey, strings.Join(schedule.Weekdays, ", "))
		}
		return day, nil
	}

	date := strings.TrimSpace(r.URL.Query().Get(dateQueryKey))
	if date == "" {
		return "", fmt.Errorf("%s or %s is required", dayQueryKey, dateQueryKey)
	}
	day, err := schedule.DayOfWeek(date)
	if err != nil {
		return "", fmt.Errorf("%s must be in YYYY-MM-DD format", dateQueryKey)
	}
	return day, nil
}

// intervalFromQuery parses the optional interval hint. The slot generator pins
// the interval to 30 minutes; the parameter is accepted for compatibility.
func intervalFromQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(intervalQueryKey))
	if raw == "" {
		return 30, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", intervalQueryKey)
	}
	return value, nil
}
