package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otodrive/otodrive-web/internal/notify"
	"github.com/otodrive/otodrive-web/internal/throttle"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

type failingSender struct{}

func (failingSender) Send(context.Context, notify.EmailMessage) error {
	return errors.New("smtp unavailable")
}

func validSubmission() Submission {
	return Submission{
		Name:    "Jane Wanjiku",
		Phone:   "0712345678",
		Email:   "jane@example.com",
		Message: "Do you convert diesel vans?",
	}
}

func newTestService(t *testing.T, sender notify.EmailSender, th *throttle.Throttle) *Service {
	t.Helper()
	svc, err := NewService(sender, th, "info@otodrive.co.ke", nil, logging.Default())
	require.NoError(t, err)
	return svc
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		field  string
	}{
		{"blank name", func(s *Submission) { s.Name = "  " }, "name"},
		{"short phone", func(s *Submission) { s.Phone = "071234567" }, "phone"},
		{"phone with plus", func(s *Submission) { s.Phone = "+254712345678" }, "phone"},
		{"email without dot", func(s *Submission) { s.Email = "jane@example" }, "email"},
		{"email with space", func(s *Submission) { s.Email = "ja ne@example.com" }, "email"},
		{"blank message", func(s *Submission) { s.Message = "" }, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)
			err := sub.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
			assert.Len(t, verr.Fields, 1)
		})
	}

	assert.NoError(t, validSubmission().Validate())
	padded := validSubmission()
	padded.Phone = " 0712345678 "
	assert.NoError(t, padded.Validate())
}

func TestServiceSubmit_SendsEmail(t *testing.T) {
	stub := notify.NewStubEmailSender(nil)
	svc := newTestService(t, stub, nil)

	require.NoError(t, svc.Submit(context.Background(), validSubmission()))

	sent := stub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "info@otodrive.co.ke", sent[0].To)
	assert.Equal(t, "New Contact Form Submission", sent[0].Subject)
	assert.Equal(t, "jane@example.com", sent[0].ReplyTo)
	assert.Equal(t, "Name: Jane Wanjiku\nPhone: 0712345678\nEmail: jane@example.com\nMessage:\nDo you convert diesel vans?", sent[0].Body)
}

func TestServiceSubmit_Throttled(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	stub := notify.NewStubEmailSender(nil)
	th := throttle.New(client, throttle.Config{MaxPerWindow: 2, Window: time.Hour}, nil)
	svc := newTestService(t, stub, th)

	ctx := context.Background()
	require.NoError(t, svc.Submit(ctx, validSubmission()))
	require.NoError(t, svc.Submit(ctx, validSubmission()))
	err := svc.Submit(ctx, validSubmission())
	assert.ErrorIs(t, err, ErrThrottled)
	assert.Len(t, stub.Sent(), 2)
}

func TestServiceSubmit_DeliveryFailure(t *testing.T) {
	svc := newTestService(t, failingSender{}, nil)
	err := svc.Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, ErrDelivery)
}

func TestNewServiceRequiresSenderAndRecipient(t *testing.T) {
	_, err := NewService(nil, nil, "info@otodrive.co.ke", nil, nil)
	assert.Error(t, err)
	_, err = NewService(notify.NewStubEmailSender(nil), nil, "", nil, nil)
	assert.Error(t, err)
}

func TestHandlerSubmit_JSON(t *testing.T) {
	stub := notify.NewStubEmailSender(nil)
	h := NewHandler(newTestService(t, stub, nil), nil)

	body, _ := json.Marshal(validSubmission())
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Message sent successfully!", resp.Message)
	assert.Len(t, stub.Sent(), 1)
}

func TestHandlerSubmit_LegacyForm(t *testing.T) {
	stub := notify.NewStubEmailSender(nil)
	h := NewHandler(newTestService(t, stub, nil), nil)

	form := url.Values{
		"Name":         {"Jane Wanjiku"},
		"Phone_Number": {"0712345678"},
		"Email":        {"jane@example.com"},
		"Massage":      {"Hello"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	sent := stub.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Body, "Message:\nHello")
}

func TestHandlerSubmit_ValidationErrors(t *testing.T) {
	stub := notify.NewStubEmailSender(nil)
	h := NewHandler(newTestService(t, stub, nil), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"","phone":"123","email":"x","message":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "error", resp.Status)
	assert.Len(t, resp.Errors, 4)
	assert.Empty(t, stub.Sent())
}

func TestHandlerSubmit_DeliveryFailure(t *testing.T) {
	h := NewHandler(newTestService(t, failingSender{}, nil), nil)

	body, _ := json.Marshal(validSubmission())
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to send the message. Please try again.")
}

func TestHandlerSubmit_BadJSON(t *testing.T) {
	h := NewHandler(newTestService(t, notify.NewStubEmailSender(nil), nil), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request.")
}
