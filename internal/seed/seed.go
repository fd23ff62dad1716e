// Package seed creates demo accounts and a demo recurring series.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	appRepos "github.com/yigit/eventhub/internal/app/repositories"
	appServices "github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/pkg/auth"
)

// Demo credentials
const (
	OrganizerEmail = "organizer@eventhub.local"
	VolunteerEmail = "volunteer@eventhub.local"
	DemoPassword   = "Eventhub123"
)

type demoUser struct {
	email     string
	firstName string
	lastName  string
	role      appModels.RoleType
	org       *string
}

// CreateDefaultData creates the demo organizer and volunteer when missing and,
// for a freshly created organizer, a weekly series starting next Monday.
// Errors are collected so one failure does not stop the rest.
func CreateDefaultData(ctx context.Context, userRepo appRepos.IUserRepository, series appServices.SeriesService, now time.Time, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	orgName := "Eventhub Demo NGO"
	users := []demoUser{
		{email: OrganizerEmail, firstName: "Demo", lastName: "Organizer", role: appModels.RoleOrganizer, org: &orgName},
		{email: VolunteerEmail, firstName: "Demo", lastName: "Volunteer", role: appModels.RoleVolunteer},
	}

	var organizerID int64
	for _, u := range users {
		id, created, err := ensureUser(ctx, userRepo, u, now)
		if err != nil {
			lgr.Error().Err(err).Str("email", u.email).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if !created {
			lgr.Info().Str("email", u.email).Msg("Demo user already exists, skipping creation")
			continue
		}
		lgr.Info().Int64("userID", id).Str("email", u.email).Msg("Demo user created")
		if u.role == appModels.RoleOrganizer {
			organizerID = id
		}
	}

	if organizerID > 0 {
		res, err := series.CreateSeries(ctx, organizerID, demoSeries(now))
		if err != nil {
			lgr.Error().Err(err).Msg("Error creating demo series")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Str("seriesID", res.Series.ID.String()).Msg("Demo series created")
		}
	}

	lgr.Info().Msg("Demo data check/creation finished.")
	return finalErr
}

func ensureUser(ctx context.Context, repo appRepos.IUserRepository, u demoUser, now time.Time) (int64, bool, error) {
	exists, err := repo.EmailExists(ctx, u.email)
	if err != nil {
		return 0, false, fmt.Errorf("check %s: %w", u.email, err)
	}
	if exists {
		return 0, false, nil
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return 0, false, err
	}

	id, err := repo.Create(ctx, &appModels.User{
		Email:            u.email,
		Password:         hash,
		FirstName:        u.firstName,
		LastName:         u.lastName,
		RoleType:         u.role,
		OrganizationName: u.org,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// NextMonday returns 09:00 UTC of the first Monday strictly after now
func NextMonday(now time.Time) time.Time {
	now = now.UTC()
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC)
}

func demoSeries(now time.Time) *dto.CreateSeriesRequest {
	start := NextMonday(now)
	maxInstances := 12
	return &dto.CreateSeriesRequest{
		EventTemplateRequest: dto.EventTemplateRequest{
			Title:       "Weekly beach cleanup",
			Description: "Two hours of litter picking on the north beach. Gloves and bags provided.",
			Location:    "North pier",
			Capacity:    25,
			Equipment:   []string{"gloves", "bags", "water bottle"},
		},
		RecurringType:  appModels.RecurringWeekly,
		RecurringValue: "Monday",
		StartDateTime:  start,
		EndDateTime:    start.Add(2 * time.Hour),
		MaxInstances:   &maxInstances,
	}
}
