package testutil

import (
	"context"
	"reflect"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/repository"

	"github.com/google/uuid"
)

// SampleUser creates a user with randomized fields. Non-zero fields of init
// overwrite the generated ones.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	sample := &entity.User{
		Base:  entity.Base{ID: uuid.NewString()},
		Email: uuid.NewString() + "@example.com",
		Name:  uuid.NewString(),
		Role:  entity.UserRole,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SampleIntegration creates a jira credential for the given user.
func SampleIntegration(ctx context.Context, init *entity.Integration) (entity.Integration, error) {
	sample := &entity.Integration{
		UserID:       uuid.NewString(),
		Provider:     entity.JiraProvider,
		SiteID:       uuid.NewString(),
		SiteURL:      "https://sample.atlassian.net",
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewIntegrationRepository().Upsert(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
