package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/queue"
	"github.com/ecomove/ecomove/internal/repository"
	"github.com/ecomove/ecomove/internal/scoring"
)

type fakeActivities struct {
	seq  uint64
	rows map[uint64]*model.Activity
}

func newFakeActivities() *fakeActivities {
	return &fakeActivities{rows: map[uint64]*model.Activity{}}
}

func (f *fakeActivities) Start(_ context.Context, userID string, t model.ActivityType, startTime time.Time) (uint64, error) {
	f.seq++
	f.rows[f.seq] = &model.Activity{
		ID: f.seq, UserID: userID, Type: t, State: model.StateRunning, StartTime: startTime.UTC(),
	}
	return f.seq, nil
}

func (f *fakeActivities) Stop(_ context.Context, userID string, id uint64, stopTime time.Time, gpx *string, proofs []string) (model.Activity, error) {
	a, ok := f.rows[id]
	if !ok || a.UserID != userID {
		return model.Activity{}, repository.ErrNotFound
	}
	stop := stopTime.UTC()
	if stopTime.IsZero() {
		stop = a.StartTime
	}
	m := scoring.Compute(a.Type, a.StartTime, stop)
	a.State = model.StateStopped
	a.StopTime = &stop
	a.DurationSeconds = m.DurationSeconds
	a.DistanceMeters = m.DistanceMeters
	a.XPEarned = m.XPEarned
	a.CO2SavedKg = m.CO2SavedKg
	if gpx != nil {
		a.GPX = gpx
	}
	if proofs != nil {
		a.Proofs = proofs
	}
	return *a, nil
}

func (f *fakeActivities) GetByID(_ context.Context, userID string, id uint64) (model.Activity, error) {
	a, ok := f.rows[id]
	if !ok || a.UserID != userID {
		return model.Activity{}, repository.ErrNotFound
	}
	return *a, nil
}

func (f *fakeActivities) ListByUser(_ context.Context, userID string) ([]model.Activity, error) {
	out := make([]model.Activity, 0)
	for i := f.seq; i >= 1; i-- {
		if a, ok := f.rows[i]; ok && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func doJSONParam(t *testing.T, h echo.HandlerFunc, method, target, body, asUser, paramID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if asUser != "" {
		c.Set("user_id", asUser)
	}
	c.SetParamNames("id")
	c.SetParamValues(paramID)
	require.NoError(t, h(c))
	return rec
}

func startWalk(t *testing.T, h *ActivityHandler, user string, start time.Time) uint64 {
	t.Helper()
	body := fmt.Sprintf(`{"activity_type":"walk","start_time":%q}`, start.Format(time.RFC3339))
	rec, _ := doJSON(t, h.Start, http.MethodPost, "/v1/activities", body, user)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ID uint64 `json:"id"`
	}
	decodeBody(t, rec, &resp)
	return resp.ID
}

func TestStartValidation(t *testing.T) {
	h := NewActivityHandler(newFakeActivities(), nil)

	rec, _ := doJSON(t, h.Start, http.MethodPost, "/v1/activities",
		`{"activity_type":"teleport","start_time":"2026-01-02T08:00:00Z"}`, "user-1")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h.Start, http.MethodPost, "/v1/activities",
		`{"activity_type":"walk","start_time":"not-a-time"}`, "user-1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWalkStopComputesMetrics(t *testing.T) {
	store := newFakeActivities()
	var published []queue.ActivityStoppedEvent
	h := NewActivityHandler(store, func(_ context.Context, ev queue.ActivityStoppedEvent) error {
		published = append(published, ev)
		return nil
	})

	start := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	id := startWalk(t, h, "user-1", start)

	body := fmt.Sprintf(`{"stop_time":%q}`, start.Add(1800*time.Second).Format(time.RFC3339))
	rec := doJSONParam(t, h.Stop, http.MethodPost, "/v1/activities/1/stop", body, "user-1",
		fmt.Sprintf("%d", id))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp activityDTO
	decodeBody(t, rec, &resp)
	require.Equal(t, model.StateStopped, resp.State)
	require.Equal(t, int64(1800), resp.DurationSeconds)
	require.Equal(t, int64(2520), resp.DistanceMeters)
	require.InDelta(t, 0.504, resp.CO2SavedKg, 1e-9)
	require.Equal(t, int64(30), resp.XPEarned)

	require.Len(t, published, 1)
	require.Equal(t, id, published[0].ActivityID)
	require.Equal(t, "walk", published[0].ActivityType)
	require.Equal(t, int64(30), published[0].XPEarned)
	require.Equal(t, start.Add(1800*time.Second).Format(time.RFC3339), published[0].StoppedAt)
}

func TestRestopOverwritesMetrics(t *testing.T) {
	h := NewActivityHandler(newFakeActivities(), nil)
	start := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	id := startWalk(t, h, "user-1", start)
	idStr := fmt.Sprintf("%d", id)

	body := fmt.Sprintf(`{"stop_time":%q}`, start.Add(1800*time.Second).Format(time.RFC3339))
	rec := doJSONParam(t, h.Stop, http.MethodPost, "/v1/activities/1/stop", body, "user-1", idStr)
	require.Equal(t, http.StatusOK, rec.Code)

	// Re-stop with a shorter window: metrics are replaced, not summed.
	body = fmt.Sprintf(`{"stop_time":%q}`, start.Add(600*time.Second).Format(time.RFC3339))
	rec = doJSONParam(t, h.Stop, http.MethodPost, "/v1/activities/1/stop", body, "user-1", idStr)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp activityDTO
	decodeBody(t, rec, &resp)
	require.Equal(t, int64(600), resp.DurationSeconds)
	require.Equal(t, int64(840), resp.DistanceMeters)
	require.Equal(t, int64(10), resp.XPEarned)
}

func TestStopUnparseableTimestampFailsSoft(t *testing.T) {
	h := NewActivityHandler(newFakeActivities(), nil)
	start := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	id := startWalk(t, h, "user-1", start)

	rec := doJSONParam(t, h.Stop, http.MethodPost, "/v1/activities/1/stop",
		`{"stop_time":"garbage"}`, "user-1", fmt.Sprintf("%d", id))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp activityDTO
	decodeBody(t, rec, &resp)
	require.Equal(t, int64(0), resp.DurationSeconds)
	require.Equal(t, int64(0), resp.DistanceMeters)
	require.Equal(t, int64(0), resp.XPEarned)
}

func TestActivitiesAreInvisibleCrossUser(t *testing.T) {
	h := NewActivityHandler(newFakeActivities(), nil)
	start := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	id := startWalk(t, h, "user-1", start)
	idStr := fmt.Sprintf("%d", id)

	rec := doJSONParam(t, h.Get, http.MethodGet, "/v1/activities/1", "", "user-2", idStr)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := fmt.Sprintf(`{"stop_time":%q}`, start.Add(time.Minute).Format(time.RFC3339))
	rec = doJSONParam(t, h.Stop, http.MethodPost, "/v1/activities/1/stop", body, "user-2", idStr)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReturnsOwnActivitiesNewestFirst(t *testing.T) {
	h := NewActivityHandler(newFakeActivities(), nil)
	start := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	first := startWalk(t, h, "user-1", start)
	second := startWalk(t, h, "user-1", start.Add(time.Hour))
	startWalk(t, h, "user-2", start)

	rec, _ := doJSON(t, h.List, http.MethodGet, "/v1/activities", "", "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Activities []activityDTO `json:"activities"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Activities, 2)
	require.Equal(t, second, resp.Activities[0].ID)
	require.Equal(t, first, resp.Activities[1].ID)
}
