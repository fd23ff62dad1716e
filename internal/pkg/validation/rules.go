// Package validation registers the request validation rules of the API on
// go-playground/validator.
package validation

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/recurrence"
)

// Rule tags
const (
	TagWeekday        = "weekday"
	TagRecurrenceType = "recurrence_type"
	TagSeriesStatus   = "series_status"
	TagCalendarRole   = "calendar_role"
)

var rules = map[string]validator.Func{
	TagWeekday: func(fl validator.FieldLevel) bool {
		_, err := recurrence.ParseWeekday(fl.Field().String())
		return err == nil
	},
	TagRecurrenceType: func(fl validator.FieldLevel) bool {
		_, err := recurrence.ParseType(fl.Field().String())
		return err == nil
	},
	TagSeriesStatus: func(fl validator.FieldLevel) bool {
		return models.SeriesStatus(fl.Field().String()).IsValid()
	},
	TagCalendarRole: func(fl validator.FieldLevel) bool {
		switch models.CalendarRole(fl.Field().String()) {
		case models.CalendarRoleVolunteer, models.CalendarRoleOrganizer:
			return true
		}
		return false
	},
}

// Register adds the custom rules to v
func Register(v *validator.Validate) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation %q: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin adds the custom rules to gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
