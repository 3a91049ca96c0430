package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/observability"
	"github.com/ecomove/ecomove/internal/queue"
	"github.com/ecomove/ecomove/internal/repository"
)

// ActivityStore is the slice of the activity repository the handlers
// need.
type ActivityStore interface {
	Start(ctx context.Context, userID string, t model.ActivityType, startTime time.Time) (uint64, error)
	Stop(ctx context.Context, userID string, id uint64, stopTime time.Time, gpx *string, proofs []string) (model.Activity, error)
	GetByID(ctx context.Context, userID string, id uint64) (model.Activity, error)
	ListByUser(ctx context.Context, userID string) ([]model.Activity, error)
}

// ActivityHandler serves the start/stop lifecycle and the read
// endpoints. Publish is called after a committed stop; when nil the
// event is simply not emitted (test setups, broker disabled).
type ActivityHandler struct {
	Activities ActivityStore
	Publish    func(ctx context.Context, event queue.ActivityStoppedEvent) error
}

func NewActivityHandler(a ActivityStore, publish func(ctx context.Context, event queue.ActivityStoppedEvent) error) *ActivityHandler {
	return &ActivityHandler{Activities: a, Publish: publish}
}

// ----- DTOs -----

type startActivityReq struct {
	ActivityType string `json:"activity_type"`
	StartTime    string `json:"start_time"`
}

type stopActivityReq struct {
	StopTime string   `json:"stop_time"`
	GPX      *string  `json:"gpx"`
	Proofs   []string `json:"proofs"`
}

type activityDTO struct {
	ID              uint64   `json:"id"`
	ActivityType    string   `json:"activity_type"`
	State           string   `json:"state"`
	StartTime       string   `json:"start_time"`
	StopTime        *string  `json:"stop_time"`
	DurationSeconds int64    `json:"duration_seconds"`
	DistanceMeters  int64    `json:"distance_meters"`
	XPEarned        int64    `json:"xp_earned"`
	CO2SavedKg      float64  `json:"co2_saved_kg"`
	GPX             *string  `json:"gpx,omitempty"`
	Proofs          []string `json:"proofs,omitempty"`
}

func activityPart(a model.Activity) activityDTO {
	d := activityDTO{
		ID:              a.ID,
		ActivityType:    string(a.Type),
		State:           a.State,
		StartTime:       fmtTime(a.StartTime),
		DurationSeconds: a.DurationSeconds,
		DistanceMeters:  a.DistanceMeters,
		XPEarned:        a.XPEarned,
		CO2SavedKg:      a.CO2SavedKg,
		GPX:             a.GPX,
		Proofs:          a.Proofs,
	}
	if a.StopTime != nil {
		s := fmtTime(*a.StopTime)
		d.StopTime = &s
	}
	return d
}

// Start creates a running activity. A second running activity for the
// same user is permitted; starts are never deduplicated.
func (h *ActivityHandler) Start(c echo.Context) error {
	var req startActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t := model.ActivityType(req.ActivityType)
	if !model.ValidActivityType(t) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown activity_type"})
	}
	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Activities.Start(ctx, userID(c), t, start)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start activity"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "state": model.StateRunning})
}

// Stop freezes metrics and applies the economy award. An unparseable
// stop_time degrades to a zero duration instead of failing the call;
// re-stopping overwrites the previous metrics.
func (h *ActivityHandler) Stop(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}
	var req stopActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	stop, err := parseTimestamp(req.StopTime)
	if err != nil {
		stop = time.Time{} // fail-soft: duration pinned at 0
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Activities.Stop(ctx, userID(c), id, stop, req.GPX, req.Proofs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not stop activity"})
	}

	observability.RecordActivityStopped(string(a.Type), a.CO2SavedKg)
	if h.Publish != nil {
		// The event carries the recorded stop time, not the wall clock
		// at publish.
		stoppedAt := a.StartTime
		if a.StopTime != nil {
			stoppedAt = *a.StopTime
		}
		ev := queue.ActivityStoppedEvent{
			ActivityID:      a.ID,
			UserID:          a.UserID,
			ActivityType:    string(a.Type),
			DurationSeconds: a.DurationSeconds,
			DistanceMeters:  a.DistanceMeters,
			XPEarned:        a.XPEarned,
			CO2SavedKg:      a.CO2SavedKg,
			StoppedAt:       fmtTime(stoppedAt),
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("activity: publish stop event failed: %v", err)
		}
	}
	return c.JSON(http.StatusOK, activityPart(a))
}

// Get returns a single activity owned by the caller.
func (h *ActivityHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid activity id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Activities.GetByID(ctx, userID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, activityPart(a))
}

// List returns the caller's activities, most recent start first.
func (h *ActivityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.Activities.ListByUser(ctx, userID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	out := make([]activityDTO, 0, len(items))
	for _, a := range items {
		out = append(out, activityPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"activities": out})
}
