package scheduler

import "context"

// Job is a unit of work run by the worker pool.
type Job interface {
	Execute(ctx context.Context) error

	// GroupID is the group whose data the job touches, for logs and traces.
	GroupID() string

	Description() string
}
