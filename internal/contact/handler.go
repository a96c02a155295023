package contact

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/otodrive/otodrive-web/pkg/logging"
)

const maxContactBody = 64 << 10

// Response is the JSON reply to a contact form post.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// Handler handles HTTP requests for the contact form
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new contact handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Submit handles POST /api/contact requests. JSON and form-encoded bodies are
// both accepted.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	sub, err := decodeSubmission(r)
	if err != nil {
		h.logger.Warn("failed to decode contact request", "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid request."})
		return
	}

	err = h.service.Submit(r.Context(), sub)
	var verr *ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Response{Status: "success", Message: "Message sent successfully!"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Please correct the highlighted fields.", Errors: verr.Fields})
	case errors.Is(err, ErrThrottled):
		writeJSON(w, http.StatusTooManyRequests, Response{Status: "error", Message: "Too many messages. Please try again later."})
	default:
		writeJSON(w, http.StatusBadGateway, Response{Status: "error", Message: "Failed to send the message. Please try again."})
	}
}

func decodeSubmission(r *http.Request) (Submission, error) {
	var sub Submission
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&sub)
		return sub, err
	}
	if err := r.ParseForm(); err != nil {
		return sub, err
	}
	sub.Name = firstValue(r, "name", "Name")
	sub.Phone = firstValue(r, "phone", "Phone_Number")
	sub.Email = firstValue(r, "email", "Email")
	sub.Message = firstValue(r, "message", "Message", "Massage")
	return sub, nil
}

// firstValue returns the first non-empty form value among keys. The legacy
// site form posts Name, Phone_Number, Email and Massage.
func firstValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := r.PostForm.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
