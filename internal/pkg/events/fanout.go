package events

import (
	"context"
	"errors"
)

// Audience is implemented by payloads addressed to specific users
type Audience interface {
	Recipients() []int64
}

// Recipients returns the organizer who materialized the instance
func (e InstanceCreated) Recipients() []int64 { return []int64{e.CreatedBy} }

// Recipients returns the organizer who changed the status
func (e SeriesStatusChanged) Recipients() []int64 { return []int64{e.ChangedBy} }

// Recipients returns the bookmark owner
func (e BookmarkChanged) Recipients() []int64 { return []int64{e.UserID} }

type multiPublisher struct {
	publishers []Publisher
}

// NewMultiPublisher publishes every event to each of ps in order
func NewMultiPublisher(ps ...Publisher) Publisher {
	return &multiPublisher{publishers: ps}
}

func (m *multiPublisher) Publish(ctx context.Context, eventType string, key string, data any) error {
	var errs error
	for _, p := range m.publishers {
		errs = errors.Join(errs, p.Publish(ctx, eventType, key, data))
	}
	return errs
}

func (m *multiPublisher) Close() error {
	var errs error
	for _, p := range m.publishers {
		errs = errors.Join(errs, p.Close())
	}
	return errs
}
