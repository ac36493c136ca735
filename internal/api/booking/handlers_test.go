package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chedoparti/clubsched/internal/pricing"
	"github.com/chedoparti/clubsched/internal/schedule"
	"github.com/chedoparti/clubsched/internal/testutil"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	return NewHandlers(testutil.NewTestStore(t))
}

func TestHandleSlots_DefaultSaturday(t *testing.T) {
	handlers := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?day=sabado", nil)
	recorder := httptest.NewRecorder()

	handlers.HandleSlots(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp slotsResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Day != schedule.DaySabado {
		t.Fatalf("day: %s", resp.Day)
	}
	if len(resp.Slots) != 26 {
		t.Fatalf("slot count: %d, want 26", len(resp.Slots))
	}
	if resp.Slots[0] != "09:00" || resp.Slots[len(resp.Slots)-1] != "21:30" {
		t.Fatalf("slot span: %s..%s", resp.Slots[0], resp.Slots[len(resp.Slots)-1])
	}
}

func TestHandleSlots_ByDate(t *testing.T) {
	handlers := newTestHandlers(t)

	// 2026-01-04 is a Sunday; defaults close at 21:00.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2026-01-04", nil)
	recorder := httptest.NewRecorder()

	handlers.HandleSlots(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp slotsResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Day != schedule.DayDomingo {
		t.Fatalf("day: %s", resp.Day)
	}
	if len(resp.Slots) != 24 {
		t.Fatalf("slot count: %d, want 24", len(resp.Slots))
	}
}

func TestHandleSlots_BadRequests(t *testing.T) {
	handlers := newTestHandlers(t)

	tests := []struct {
		name   string
		target string
	}{
		{name: "unknown_day", target: "/api/v1/slots?day=funday"},
		{name: "no_day_or_date", target: "/api/v1/slots"},
		{name: "bad_date", target: "/api/v1/slots?date=01-04-2026"},
		{name: "bad_interval", target: "/api/v1/slots?day=lunes&interval=zero"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handlers.HandleSlots(recorder, httptest.NewRequest(http.MethodGet, test.target, nil))
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status: %d", recorder.Code)
			}
		})
	}
}

func TestHandleOpen_Boundaries(t *testing.T) {
	handlers := newTestHandlers(t)

	tests := []struct {
		clock string
		want  bool
	}{
		{clock: "08:00", want: true},
		{clock: "22:59", want: true},
		{clock: "23:00", want: false},
		{clock: "07:59", want: false},
	}

	for _, test := range tests {
		t.Run(test.clock, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/operating-hours/open?day=lunes&time="+test.clock, nil)
			recorder := httptest.NewRecorder()

			handlers.HandleOpen(recorder, req)

			if recorder.Code != http.StatusOK {
				t.Fatalf("status: %d", recorder.Code)
			}
			var resp openResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Open != test.want {
				t.Fatalf("open at %s: %t, want %t", test.clock, resp.Open, test.want)
			}
		})
	}
}

func TestHandleOpen_InvalidTime(t *testing.T) {
	handlers := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/operating-hours/open?day=lunes&time=8pm", nil)
	recorder := httptest.NewRecorder()

	handlers.HandleOpen(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleQuote_DefaultPricing(t *testing.T) {
	handlers := newTestHandlers(t)

	// Court 1 default override is 2500 with 1.3 peak and 1.2 weekend; 16:00 on
	// a Saturday is a weekend peak hour.
	body := `{"courtId": 1, "sport": "Padel", "date": "2026-01-03", "time": "16:00", "durationMinutes": 90}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	handlers.HandleQuote(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d, body: %s", recorder.Code, recorder.Body.String())
	}
	var breakdown pricing.Breakdown
	if err := json.Unmarshal(recorder.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if breakdown.HourlyRate != 3900 {
		t.Fatalf("hourly rate: %v, want 3900", breakdown.HourlyRate)
	}
	if breakdown.TotalPrice != 5850 {
		t.Fatalf("total price: %d, want 5850", breakdown.TotalPrice)
	}
}

func TestHandleQuote_BadRequests(t *testing.T) {
	handlers := newTestHandlers(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing_court", body: `{"sport": "Padel", "date": "2026-01-03", "time": "16:00", "durationMinutes": 60}`},
		{name: "bad_date", body: `{"courtId": 1, "sport": "Padel", "date": "03/01/2026", "time": "16:00", "durationMinutes": 60}`},
		{name: "bad_time", body: `{"courtId": 1, "sport": "Padel", "date": "2026-01-03", "time": "4pm", "durationMinutes": 60}`},
		{name: "zero_duration", body: `{"courtId": 1, "sport": "Padel", "date": "2026-01-03", "time": "16:00", "durationMinutes": 0}`},
		{name: "unknown_field", body: `{"courtId": 1, "sport": "Padel", "date": "2026-01-03", "time": "16:00", "durationMinutes": 60, "discount": 10}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(test.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			handlers.HandleQuote(recorder, req)

			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status: %d", recorder.Code)
			}
		})
	}
}

func TestHandleScheduleUpdate_LegacyBodyIsServedNormalized(t *testing.T) {
	handlers := newTestHandlers(t)

	body := `{"lunes": {"openTime": "10:00", "closeTime": "12:00"}, "feriados": ["2026-05-01"]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/schedule", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	handlers.HandleScheduleUpdate(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d, body: %s", recorder.Code, recorder.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	getRecorder := httptest.NewRecorder()
	handlers.HandleScheduleGet(getRecorder, getReq)

	if getRecorder.Code != http.StatusOK {
		t.Fatalf("get status: %d", getRecorder.Code)
	}
	var sched schedule.InstitutionSchedule
	if err := json.Unmarshal(getRecorder.Body.Bytes(), &sched); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	lunes, ok := sched.Days[schedule.DayLunes]
	if !ok {
		t.Fatalf("lunes missing")
	}
	if len(lunes.Ranges) != 1 || lunes.Ranges[0].OpenTime != "10:00" {
		t.Fatalf("lunes not normalized: %+v", lunes)
	}
	if _, ok := sched.Extra["feriados"]; !ok {
		t.Fatalf("feriados dropped")
	}

	slotsReq := httptest.NewRequest(http.MethodGet, "/api/v1/slots?day=lunes", nil)
	slotsRecorder := httptest.NewRecorder()
	handlers.HandleSlots(slotsRecorder, slotsReq)

	var resp slotsResponse
	if err := json.Unmarshal(slotsRecorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode slots: %v", err)
	}
	if len(resp.Slots) != 4 {
		t.Fatalf("lunes slot count: %d, want 4", len(resp.Slots))
	}
}

func TestHandlePricingUpdate_RoundTrip(t *testing.T) {
	handlers := newTestHandlers(t)

	cfg := pricing.Config{
		Sports:    map[string]pricing.SportRates{"Tenis": {BasePrice: 1600, WeekendMultiplier: 1.25}},
		PeakHours: pricing.PeakHours{Weekdays: []string{"18:00"}},
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal pricing: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/pricing", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	handlers.HandlePricingUpdate(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}

	getRecorder := httptest.NewRecorder()
	handlers.HandlePricingGet(getRecorder, httptest.NewRequest(http.MethodGet, "/api/v1/pricing", nil))

	var loaded pricing.Config
	if err := json.Unmarshal(getRecorder.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode pricing: %v", err)
	}
	if loaded.Sports["Tenis"].BasePrice != 1600 {
		t.Fatalf("Tenis base price: %v, want 1600", loaded.Sports["Tenis"].BasePrice)
	}
}
