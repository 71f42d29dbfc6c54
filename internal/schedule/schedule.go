// Package schedule talks to the Schedule Service, the HTTP backend that owns
// slots, month counts and the employee list.
package schedule

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Versuscsdota/MirrorCRM/internal/slot"
)

// Service is the Schedule Service as seen by the editor and the CLI.
type Service interface {
	ListDay(ctx context.Context, date string) ([]slot.Slot, error)
	Month(ctx context.Context, month string) ([]slot.MonthDay, error)
	Create(ctx context.Context, req slot.CreateRequest) (slot.Slot, error)
	Update(ctx context.Context, req slot.UpdateRequest) (slot.Slot, error)
	Delete(ctx context.Context, id, date string) error
	Resources(ctx context.Context) ([]slot.Resource, error)
}

// ErrTransport wraps failures to reach the service at all.
var ErrTransport = errors.New("schedule service unreachable")

// APIError is a non-2xx response. Its message is the response body as sent
// by the server, so users see the server's own wording.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if msg := strings.TrimSpace(e.Body); msg != "" {
		return msg
	}
	if text := http.StatusText(e.Status); text != "" {
		return text
	}
	return "request failed"
}

// IsAPIError reports whether err is a server rejection rather than a
// transport or validation failure.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
