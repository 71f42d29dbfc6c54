package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Token: "secret", Timeout: 2 * time.Second})
}

func TestListDay(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("date"))
		assert.NotEmpty(t, r.URL.Query().Get("__ts"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[{"id":"1","date":"2024-03-01","start":"10:00","end":"11:00","resourceId":"A","title":"Casting"}]}`)
	})

	slots, err := c.ListDay(context.Background(), "2024-03-01")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, slot.Slot{ID: "1", Date: "2024-03-01", Start: "10:00", End: "11:00", ResourceID: "A", Title: "Casting"}, slots[0])
}

func TestListDayRejectsBadDate(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	for _, date := range []string{"", "01.03.2024", "2024-13-01"} {
		_, err := c.ListDay(context.Background(), date)
		assert.Error(t, err, "date %q", date)
	}
	assert.Zero(t, hits.Load())
}

func TestMonth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-03", r.URL.Query().Get("month"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"days":[{"date":"2024-03-01","count":0},{"date":"2024-03-02","count":3}]}`)
	})

	days, err := c.Month(context.Background(), "2024-03")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.False(t, days[0].Marked())
	assert.True(t, days[1].Marked())
}

func TestCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.URL.Query().Get("__ts"), "only GET requests carry the cache buster")

		var body slot.CreateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "12:00", body.Start)
		assert.Equal(t, "12:30", body.End)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(slot.Slot{ID: "new-1", Date: body.Date, Start: body.Start, End: body.End, Title: body.Title})
	})

	created, err := c.Create(context.Background(), slot.CreateRequest{Date: "2024-03-01", Start: "12:00", End: "12:30", Title: "Anna"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.ID)
}

func TestUpdateSendsResourceOnlyWhenSet(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	})

	updated, err := c.Update(context.Background(), slot.UpdateRequest{ID: "1", Date: "2024-03-01", Start: "10:01", End: "11:01"})
	require.NoError(t, err)
	assert.Empty(t, updated.ID, "empty body gives a zero slot")
	assert.Equal(t, map[string]any{"id": "1", "date": "2024-03-01", "start": "10:01", "end": "11:01"}, raw)
}

func TestUpdateServerErrorIsVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, "Слот занят")
	})

	_, err := c.Update(context.Background(), slot.UpdateRequest{ID: "1", Date: "2024-03-01", Start: "10:00", End: "11:00"})
	require.Error(t, err)
	assert.Equal(t, "Слот занят", err.Error())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.True(t, IsAPIError(err))
}

func TestErrorWithEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := c.Delete(context.Background(), "1", "2024-03-01")
	require.Error(t, err)
	assert.Equal(t, "Forbidden", err.Error())
}

func TestNoAutomaticRetry(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	})

	_, err := c.Update(context.Background(), slot.UpdateRequest{ID: "1", Date: "2024-03-01", Start: "10:00", End: "11:00"})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestUpdateValidatesLocally(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })

	_, err := c.Update(context.Background(), slot.UpdateRequest{ID: "1", Date: "2024-03-01", Start: "11:00", End: "10:00"})
	assert.ErrorIs(t, err, slot.ErrEndBeforeStart)

	_, err = c.Update(context.Background(), slot.UpdateRequest{Date: "2024-03-01"})
	assert.ErrorIs(t, err, slot.ErrMissingID)

	assert.Zero(t, hits.Load())
}

func TestDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "s1", r.URL.Query().Get("id"))
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("date"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Delete(context.Background(), "s1", "2024-03-01"))
	assert.ErrorIs(t, c.Delete(context.Background(), "", "2024-03-01"), slot.ErrMissingID)
}

func TestResourcesBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"array", `[{"id":"A","fullName":"Anna"},{"id":"B","fullName":"Boris"}]`},
		{"wrapped", `{"items":[{"id":"A","fullName":"Anna"},{"id":"B","fullName":"Boris"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/employees", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			})
			got, err := c.Resources(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []slot.Resource{{ID: "A", FullName: "Anna"}, {ID: "B", FullName: "Boris"}}, got)
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url, Timeout: time.Second})
	_, err := c.ListDay(context.Background(), "2024-03-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, IsAPIError(err))
}
