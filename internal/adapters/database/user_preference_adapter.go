package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	"github.com/zatekoja/clothingsearch/internal/domain/repositories"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

// UserPreferenceAdapter implements UserPreferenceRepository
type UserPreferenceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserPreferenceAdapter creates a new user preference adapter
func NewUserPreferenceAdapter(client *postgres.Client) repositories.UserPreferenceRepository {
	return &UserPreferenceAdapter{
		client: client,
		db:     newDialect(client.DB()),
	}
}

// GetByUserID retrieves a preference joined with its country name
func (a *UserPreferenceAdapter) GetByUserID(ctx context.Context, userID string) (*entities.UserPreference, error) {
	query, args, err := a.db.From(goqu.T("user_preferences").As("p")).
		Join(goqu.T("countries").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("p.country_id")))).
		Select(
			goqu.I("p.user_id"), goqu.I("p.country_id"), goqu.I("c.name"),
			goqu.I("p.clothing_size"), goqu.I("p.shoe_size"), goqu.I("p.shoe_size_system"),
			goqu.I("p.updated_at"),
		).
		Where(goqu.I("p.user_id").Eq(userID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	pref := &entities.UserPreference{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&pref.UserID, &pref.CountryID, &pref.CountryName,
		&pref.ClothingSize, &pref.ShoeSize, &pref.ShoeSizeSystem,
		&pref.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("user preference not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user preference", err)
	}
	return pref, nil
}

func preferenceRecord(pref *entities.UserPreference) goqu.Record {
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now().UTC()
	}
	return goqu.Record{
		"user_id":          pref.UserID,
		"country_id":       pref.CountryID,
		"clothing_size":    pref.ClothingSize,
		"shoe_size":        pref.ShoeSize,
		"shoe_size_system": pref.ShoeSizeSystem,
		"updated_at":       pref.UpdatedAt,
	}
}

// Create inserts a new preference
func (a *UserPreferenceAdapter) Create(ctx context.Context, pref *entities.UserPreference) error {
	query, args, err := a.db.Insert("user_preferences").
		Rows(preferenceRecord(pref)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("user preference already exists: " + pref.UserID)
		}
		return apperrors.NewInternalError("failed to create user preference", err)
	}
	return nil
}

// Upsert creates the preference or replaces every column but the key
func (a *UserPreferenceAdapter) Upsert(ctx context.Context, pref *entities.UserPreference) error {
	pref.UpdatedAt = time.Now().UTC()
	query, args, err := a.db.Insert("user_preferences").
		Rows(preferenceRecord(pref)).
		OnConflict(goqu.DoUpdate("user_id", goqu.Record{
			"country_id":       goqu.I("EXCLUDED.country_id"),
			"clothing_size":    goqu.I("EXCLUDED.clothing_size"),
			"shoe_size":        goqu.I("EXCLUDED.shoe_size"),
			"shoe_size_system": goqu.I("EXCLUDED.shoe_size_system"),
			"updated_at":       goqu.I("EXCLUDED.updated_at"),
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert user preference", err)
	}
	return nil
}
