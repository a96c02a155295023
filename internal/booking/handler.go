package booking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/otodrive/otodrive-web/internal/schedule"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

const maxBookingBody = 64 << 10

// Handler serves the booking and slot endpoints.
type Handler struct {
	submitter *Submitter
	logger    *logging.Logger
	now       func() time.Time
}

// NewHandler creates a new booking handler
func NewHandler(submitter *Submitter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		submitter: submitter,
		logger:    logger,
		now:       time.Now,
	}
}

// SlotsResponse is the response for listing a day's slots
type SlotsResponse struct {
	Date     string              `json:"date"`
	Timezone string              `json:"timezone"`
	Closed   bool                `json:"closed"`
	Slots    []schedule.TimeSlot `json:"slots"`
}

// CreateBooking handles POST /api/book requests
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req Request

	r.Body = http.MaxBytesReader(w, r.Body, maxBookingBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode booking request", "error", err)
		writeJSON(w, http.StatusBadRequest, Result{Success: false, Error: MsgGenericFailure})
		return
	}

	result := h.submitter.Submit(r.Context(), req)
	writeJSON(w, http.StatusOK, result)
}

// ListSlots handles GET /api/slots?date=YYYY-MM-DD requests
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	policy := h.submitter.Policy()
	date := r.URL.Query().Get("date")

	resp := SlotsResponse{
		Date:     date,
		Timezone: policy.Timezone(),
		Slots:    []schedule.TimeSlot{},
	}
	if _, err := policy.ParseDate(date); err != nil {
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	resp.Slots = policy.DisplaySlots(date, h.now())
	resp.Closed = len(resp.Slots) == 0
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
