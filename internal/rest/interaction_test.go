package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketSearch/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	events []domain.InteractionEvent
}

func (f *fakeRecorder) RecordInteraction(_ context.Context, event domain.InteractionEvent) bool {
	f.events = append(f.events, event)
	return true
}

func (f *fakeRecorder) GetUserPreferences(_ context.Context, userID uint) *domain.PreferenceProfile {
	return domain.NewPreferenceProfile(userID)
}

func (f *fakeRecorder) ClearUserPreferences(context.Context, uint) error { return nil }

type fakeEventReader struct {
	byUser map[uint][]domain.InteractionEvent
	err    error
	limit  int
}

func (f *fakeEventReader) RecentEvents(_ context.Context, userID uint, limit int) ([]domain.InteractionEvent, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

func recentEventsContext(target string, paramValue string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/admin/users/:id/events")
	c.SetParamNames("id")
	c.SetParamValues(paramValue)
	return c, rec
}

func TestRecentEvents_ReturnsUserEvents(t *testing.T) {
	reader := &fakeEventReader{byUser: map[uint][]domain.InteractionEvent{
		7: {{UserID: 7, Type: domain.InteractionSearch, Timestamp: time.Now()}},
	}}
	handler := NewInteractionHandler(&fakeRecorder{}, reader)

	c, rec := recentEventsContext("/api/v1/admin/users/7/events", "7")
	require.NoError(t, handler.RecentEvents(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"SEARCH"`)
	assert.Equal(t, 50, reader.limit)
}

func TestRecentEvents_LimitClampedAndValidated(t *testing.T) {
	reader := &fakeEventReader{byUser: map[uint][]domain.InteractionEvent{}}
	handler := NewInteractionHandler(&fakeRecorder{}, reader)

	c, rec := recentEventsContext("/api/v1/admin/users/7/events?limit=9000", "7")
	require.NoError(t, handler.RecentEvents(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500, reader.limit)

	c, rec = recentEventsContext("/api/v1/admin/users/7/events?limit=zero", "7")
	require.NoError(t, handler.RecentEvents(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentEvents_InvalidUserID(t *testing.T) {
	handler := NewInteractionHandler(&fakeRecorder{}, &fakeEventReader{})

	c, rec := recentEventsContext("/api/v1/admin/users/abc/events", "abc")
	require.NoError(t, handler.RecentEvents(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentEvents_StoreFailure(t *testing.T) {
	reader := &fakeEventReader{err: fmt.Errorf("connection refused")}
	handler := NewInteractionHandler(&fakeRecorder{}, reader)

	c, rec := recentEventsContext("/api/v1/admin/users/7/events", "7")
	require.NoError(t, handler.RecentEvents(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
