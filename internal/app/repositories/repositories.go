package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	EventRepository        *EventRepository
	SeriesRepository       *SeriesRepository
	RegistrationRepository *RegistrationRepository
	CalendarRepository     *CalendarRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		EventRepository:        NewEventRepository(db),
		SeriesRepository:       NewSeriesRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
		CalendarRepository:     NewCalendarRepository(db),
	}
}
