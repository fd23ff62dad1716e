package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/repositories"
	"github.com/yigit/eventhub/internal/db"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// In-memory repositories. They hand out copies so services cannot mutate
// stored rows without going through the repository.

type passTx struct{}

func (passTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx)
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*models.Event)}
}

func copyEvent(e *models.Event) *models.Event {
	c := *e
	return &c
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.RecurringSeriesID != nil && e.RecurringInstanceNumber != nil {
		for _, other := range r.events {
			if other.RecurringSeriesID != nil && *other.RecurringSeriesID == *e.RecurringSeriesID &&
				other.RecurringInstanceNumber != nil && *other.RecurringInstanceNumber == *e.RecurringInstanceNumber {
				return apperrors.ErrInstanceDuplicate
			}
		}
	}
	r.events[e.ID] = copyEvent(e)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return copyEvent(e), nil
}

func (r *fakeEventRepo) bySeries(seriesID uuid.UUID) []*models.Event {
	var out []*models.Event
	for _, e := range r.events {
		if e.RecurringSeriesID != nil && *e.RecurringSeriesID == seriesID {
			out = append(out, copyEvent(e))
		}
	}
	slices.SortFunc(out, func(a, b *models.Event) int {
		return *a.RecurringInstanceNumber - *b.RecurringInstanceNumber
	})
	return out
}

func (r *fakeEventRepo) GetLatestInstance(_ context.Context, seriesID uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.bySeries(seriesID)
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func (r *fakeEventRepo) ListBySeries(_ context.Context, seriesID uuid.UUID) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySeries(seriesID), nil
}

func (r *fakeEventRepo) ListMissingSummary(_ context.Context, seriesID uuid.UUID) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Event
	for _, e := range r.bySeries(seriesID) {
		if e.AISummary == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func visibleIn(e *models.Event, start, end time.Time) bool {
	if e.StartDateTime.After(end) {
		return false
	}
	return e.RecurringEvent || !e.EndDateTime.Before(start)
}

func (r *fakeEventRepo) ListOrganizedInRange(_ context.Context, userID int64, start, end time.Time) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Event
	for _, e := range r.events {
		if e.IsOrganizer(userID) && visibleIn(e, start, end) {
			out = append(out, copyEvent(e))
		}
	}
	return out, nil
}

func (r *fakeEventRepo) UpdateFutureRecurringStatus(_ context.Context, seriesID uuid.UUID, status models.SeriesStatus, after time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.RecurringSeriesID != nil && *e.RecurringSeriesID == seriesID && e.StartDateTime.After(after) {
			s := status
			e.RecurringStatus = &s
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) UpdateSummary(_ context.Context, id uuid.UUID, summary string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	e.AISummary = &summary
	e.SummaryGeneratedAt = &at
	return nil
}

func (r *fakeEventRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fakeSeriesRepo struct {
	mu     sync.Mutex
	series map[uuid.UUID]*models.RecurringSeries
	stats  int
}

func newFakeSeriesRepo() *fakeSeriesRepo {
	return &fakeSeriesRepo{series: make(map[uuid.UUID]*models.RecurringSeries)}
}

func copySeries(s *models.RecurringSeries) *models.RecurringSeries {
	c := *s
	return &c
}

func (r *fakeSeriesRepo) Create(_ context.Context, s *models.RecurringSeries) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series[s.ID] = copySeries(s)
	return nil
}

func (r *fakeSeriesRepo) GetByID(_ context.Context, id uuid.UUID) (*models.RecurringSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok {
		return nil, apperrors.ErrSeriesNotFound
	}
	return copySeries(s), nil
}

func (r *fakeSeriesRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.RecurringSeries, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSeriesRepo) ListByCreator(_ context.Context, userID int64, offset uint64, limit int) ([]*models.RecurringSeries, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.RecurringSeries
	for _, s := range r.series {
		if s.CreatedBy == userID {
			all = append(all, copySeries(s))
		}
	}
	slices.SortFunc(all, func(a, b *models.RecurringSeries) int { return a.StartDate.Compare(b.StartDate) })
	total := int64(len(all))
	if int(offset) >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeSeriesRepo) ListActive(_ context.Context) ([]*models.RecurringSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.RecurringSeries
	for _, s := range r.series {
		if s.Status == models.SeriesActive {
			out = append(out, copySeries(s))
		}
	}
	return out, nil
}

func (r *fakeSeriesRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.SeriesStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok {
		return apperrors.ErrSeriesNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSeriesRepo) RecordInstance(_ context.Context, id uuid.UUID, instanceNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok {
		return apperrors.ErrSeriesNotFound
	}
	s.CurrentInstanceNumber = instanceNumber
	s.TotalInstancesCreated++
	return nil
}

func (r *fakeSeriesRepo) UpdateStatistics(_ context.Context, id uuid.UUID, stats models.SeriesStatistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok {
		return apperrors.ErrSeriesNotFound
	}
	s.TotalInstancesCreated = stats.TotalInstancesCreated
	s.TotalRegistrations = stats.TotalRegistrations
	s.TotalAttendances = stats.TotalAttendances
	s.AverageAttendance = stats.AverageAttendance
	r.stats++
	return nil
}

type fakeRegistrationRepo struct {
	mu     sync.Mutex
	events *fakeEventRepo
	regs   []models.Registration
}

func newFakeRegistrationRepo(events *fakeEventRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{events: events}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.regs {
		if existing.EventID == reg.EventID && existing.UserID == reg.UserID {
			return apperrors.ErrAlreadyRegisteredForEvent
		}
	}
	reg.ID = int64(len(r.regs) + 1)
	r.regs = append(r.regs, *reg)
	return nil
}

func (r *fakeRegistrationRepo) Delete(_ context.Context, eventID uuid.UUID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.regs {
		if reg.EventID == eventID && reg.UserID == userID {
			r.regs = slices.Delete(r.regs, i, i+1)
			return nil
		}
	}
	return apperrors.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) IsRegistered(_ context.Context, eventID uuid.UUID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRegistrationRepo) CountForEvent(_ context.Context, eventID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRegistrationRepo) SetAttendance(_ context.Context, eventID uuid.UUID, userID int64, attended bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.regs {
		if r.regs[i].EventID == eventID && r.regs[i].UserID == userID {
			r.regs[i].Attended = attended
			return nil
		}
	}
	return apperrors.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) ListUserEventsInRange(ctx context.Context, userID int64, start, end time.Time) ([]repositories.RegisteredEvent, error) {
	r.mu.Lock()
	regs := slices.Clone(r.regs)
	r.mu.Unlock()

	var out []repositories.RegisteredEvent
	for _, reg := range regs {
		if reg.UserID != userID {
			continue
		}
		e, err := r.events.GetByID(ctx, reg.EventID)
		if err != nil {
			return nil, err
		}
		if visibleIn(e, start, end) {
			out = append(out, repositories.RegisteredEvent{Event: e, Attended: reg.Attended})
		}
	}
	return out, nil
}

func (r *fakeRegistrationRepo) SeriesTotals(ctx context.Context, seriesID uuid.UUID) (int, int, error) {
	r.mu.Lock()
	regs := slices.Clone(r.regs)
	r.mu.Unlock()

	var total, attended int
	for _, reg := range regs {
		e, err := r.events.GetByID(ctx, reg.EventID)
		if err != nil || e.RecurringSeriesID == nil || *e.RecurringSeriesID != seriesID {
			continue
		}
		total++
		if reg.Attended {
			attended++
		}
	}
	return total, attended, nil
}

type fakeCalendarRepo struct {
	mu        sync.Mutex
	events    *fakeEventRepo
	bookmarks []models.CalendarBookmark
}

func newFakeCalendarRepo(events *fakeEventRepo) *fakeCalendarRepo {
	return &fakeCalendarRepo{events: events}
}

func (r *fakeCalendarRepo) Add(_ context.Context, b *models.CalendarBookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookmarks {
		if existing.UserID == b.UserID && existing.EventID == b.EventID {
			return apperrors.ErrBookmarkExists
		}
	}
	r.bookmarks = append(r.bookmarks, *b)
	return nil
}

func (r *fakeCalendarRepo) Remove(_ context.Context, userID int64, eventID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bookmarks {
		if b.UserID == userID && b.EventID == eventID {
			r.bookmarks = slices.Delete(r.bookmarks, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCalendarRepo) Exists(_ context.Context, userID int64, eventID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookmarks {
		if b.UserID == userID && b.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCalendarRepo) ListEventsInRange(ctx context.Context, userID int64, start, end time.Time) ([]*models.Event, error) {
	r.mu.Lock()
	bookmarks := slices.Clone(r.bookmarks)
	r.mu.Unlock()

	var out []*models.Event
	for _, b := range bookmarks {
		if b.UserID != userID {
			continue
		}
		e, err := r.events.GetByID(ctx, b.EventID)
		if err != nil {
			return nil, err
		}
		if visibleIn(e, start, end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	c.ID = int64(len(r.users) + 1)
	r.users = append(r.users, &c)
	return c.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type recordingScheduler struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (s *recordingScheduler) ScheduleSummary(_ context.Context, eventID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, eventID)
	return true
}

func (s *recordingScheduler) scheduled() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ids)
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, _ string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, eventType)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.types)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }
