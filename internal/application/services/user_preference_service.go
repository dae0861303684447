package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// UserPreferenceService resolves and manages per-user search context.
type UserPreferenceService struct {
	prefs          repositories.UserPreferenceRepository
	countries      repositories.CountryRepository
	defaultCountry string
	validate       *validator.Validate
}

// NewUserPreferenceService creates a new user preference service.
// defaultCountry names the country new users are bound to.
func NewUserPreferenceService(
	prefs repositories.UserPreferenceRepository,
	countries repositories.CountryRepository,
	defaultCountry string,
) *UserPreferenceService {
	return &UserPreferenceService{
		prefs:          prefs,
		countries:      countries,
		defaultCountry: defaultCountry,
		validate:       validator.New(),
	}
}

// Resolve returns the user's preference, creating and persisting the default
// one on first use. Any error is an INTERNAL AppError: without a country the
// search cannot pick providers.
func (s *UserPreferenceService) Resolve(ctx context.Context, userID string) (*entities.UserPreference, error) {
	pref, err := s.prefs.GetByUserID(ctx, userID)
	if err == nil {
		return pref, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewInternalError("failed to resolve user preference", err)
	}

	country, err := s.resolveDefaultCountry(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to resolve default country", err)
	}

	pref = entities.NewDefaultUserPreference(userID, country)
	if err := s.prefs.Create(ctx, pref); err != nil {
		// Another request created it first; theirs wins.
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			existing, getErr := s.prefs.GetByUserID(ctx, userID)
			if getErr == nil {
				return existing, nil
			}
			err = getErr
		}
		return nil, apperrors.NewInternalError("failed to create default user preference", err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("user_id", userID).
		Str("country", country.Name).
		Msg("Created default user preference")
	return pref, nil
}

func (s *UserPreferenceService) resolveDefaultCountry(ctx context.Context) (*entities.Country, error) {
	country, err := s.countries.GetByName(ctx, s.defaultCountry)
	if err == nil {
		return country, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	country, err = s.countries.First(ctx)
	if err != nil {
		return nil, err
	}
	observability.LoggerFromContext(ctx).Warn().
		Str("configured", s.defaultCountry).
		Str("using", country.Name).
		Msg("Default country not found, falling back to first country")
	return country, nil
}

// Get returns the stored preference or a NOT_FOUND AppError.
func (s *UserPreferenceService) Get(ctx context.Context, userID string) (*entities.UserPreference, error) {
	return s.prefs.GetByUserID(ctx, userID)
}

// Upsert validates req and creates or replaces the user's preference.
// Empty sizes fall back to the defaults.
func (s *UserPreferenceService) Upsert(ctx context.Context, userID string, req entities.UpdateUserPreference) (*entities.UserPreference, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("userId is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.NewValidationError(validationMessage(err))
	}

	country, err := s.countries.GetByID(ctx, req.CountryID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown countryId %d", req.CountryID))
		}
		return nil, err
	}

	pref := &entities.UserPreference{
		UserID:         userID,
		CountryID:      country.ID,
		CountryName:    country.Name,
		ClothingSize:   orDefault(req.ClothingSize, entities.DefaultClothingSize),
		ShoeSize:       orDefault(req.ShoeSize, entities.DefaultShoeSize),
		ShoeSizeSystem: orDefault(req.ShoeSizeSystem, entities.DefaultShoeSizeSystem),
	}
	if err := s.prefs.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// ListCountries returns all countries ordered by name.
func (s *UserPreferenceService) ListCountries(ctx context.Context) ([]*entities.Country, error) {
	return s.countries.List(ctx)
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
