package ports

import (
	"context"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
)

// ActivityInput is the DTO passed from the transport layer to ActivityService.
type ActivityInput struct {
	Action      domain.ActivityAction
	Description string
	DecreeID    string
	Metadata    map[string]any
	IPAddress   string
	UserAgent   string
}

// ActivityService records and lists the activity trail.
type ActivityService interface {
	Record(ctx context.Context, input ActivityInput) error
	List(ctx context.Context, action string, limit int) ([]domain.ActivityLog, error)
}

// ActivityRecorder accepts activity entries for asynchronous recording.
type ActivityRecorder interface {
	Enqueue(input ActivityInput)
}
