package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/terraincognita07/flowlog/internal/services"
)

const dateLayout = "2006-01-02"

func (input credentialsInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Email, validation.Required, is.EmailFormat),
		validation.Field(&input.Password, validation.Required),
	)
}

func (input changePasswordInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.CurrentPassword, validation.Required),
		validation.Field(&input.NewPassword, validation.Required),
	)
}

func (input onboardingInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.LastPeriodStart, validation.Date(dateLayout)),
		validation.Field(&input.PeriodLength, validation.Min(0), validation.Max(14)),
	)
}

func (input periodUpdateInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.EndDate, validation.NilOrNotEmpty, validation.Date(dateLayout)),
	)
}

func (input onboardingInput) toServiceInput(location *time.Location) services.OnboardingInput {
	result := services.OnboardingInput{PeriodLength: input.PeriodLength}
	if input.LastPeriodStart != "" {
		if start, err := parseDay(input.LastPeriodStart, location); err == nil {
			result.LastPeriodStart = &start
		}
	}
	return result
}

func (input periodUpdateInput) toServiceUpdate(location *time.Location) (services.PeriodUpdate, error) {
	update := services.PeriodUpdate{Flow: input.Flow}
	if input.EndDate != nil {
		end, err := parseDay(*input.EndDate, location)
		if err != nil {
			return services.PeriodUpdate{}, err
		}
		update.EndDate = &end
	}
	return update, nil
}

func parseDay(raw string, location *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation(dateLayout, raw, location)
	if err != nil {
		return time.Time{}, err
	}
	return services.DateAtLocation(parsed, location), nil
}
