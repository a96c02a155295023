package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otodrive/otodrive-web/internal/calendar"
	"github.com/otodrive/otodrive-web/pkg/logging"
)

func newTestHandler(t *testing.T, integration calendar.Integration, now time.Time) *Handler {
	t.Helper()
	h := NewHandler(newTestSubmitter(t, integration), logging.Default())
	h.now = func() time.Time { return now }
	return h
}

func TestCreateBooking_Success(t *testing.T) {
	h := newTestHandler(t, &fakeIntegration{}, time.Now())

	body, _ := json.Marshal(validRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/book", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.CreateBooking(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.True(t, result.Success)
	require.NotNil(t, result.CalendarURL)
	assert.Contains(t, *result.CalendarURL, "20240115T060000Z")
}

func TestCreateBooking_DisabledHasNullCalendarURL(t *testing.T) {
	h := newTestHandler(t, calendar.Disabled{}, time.Now())

	body, _ := json.Marshal(validRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/book", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.CreateBooking(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["success"])
	value, present := raw["calendarUrl"]
	assert.True(t, present, "calendarUrl key must be present")
	assert.Nil(t, value)
	assert.Equal(t, calendar.DisabledMessage, raw["message"])
	_, hasError := raw["error"]
	assert.False(t, hasError)
}

func TestCreateBooking_DomainFailureIs200(t *testing.T) {
	h := newTestHandler(t, &fakeIntegration{}, time.Now())

	body := `{"name":"A","phone":"1","vehicle":"V","date":"2024-01-15","time":"18:00","service":"S"}`
	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.CreateBooking(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, MsgOutsideHours, result.Error)
}

func TestCreateBooking_InvalidBody(t *testing.T) {
	h := newTestHandler(t, &fakeIntegration{}, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.CreateBooking(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var result Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, MsgGenericFailure, result.Error)
}

func TestListSlots(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)
	now := time.Date(2024, 1, 15, 12, 5, 0, 0, loc)
	h := newTestHandler(t, &fakeIntegration{}, now)

	req := httptest.NewRequest(http.MethodGet, "/api/slots?date=2024-01-15", nil)
	w := httptest.NewRecorder()
	h.ListSlots(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "2024-01-15", resp.Date)
	assert.Equal(t, "Africa/Nairobi", resp.Timezone)
	assert.False(t, resp.Closed)
	require.Len(t, resp.Slots, 18)
	assert.False(t, resp.Slots[8].Available) // 12:00
	assert.True(t, resp.Slots[9].Available)  // 12:30
}

func TestListSlots_Sunday(t *testing.T) {
	h := newTestHandler(t, nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	req := httptest.NewRequest(http.MethodGet, "/api/slots?date=2024-01-14", nil)
	w := httptest.NewRecorder()
	h.ListSlots(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Closed)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestListSlots_InvalidDate(t *testing.T) {
	h := newTestHandler(t, nil, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/api/slots?date=tomorrow", nil)
	w := httptest.NewRecorder()
	h.ListSlots(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"slots":[]`)
}
