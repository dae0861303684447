package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/clothingsearch/internal/domain/entities"
	apperrors "github.com/zatekoja/clothingsearch/pkg/errors"
)

func TestUserPreferenceAdapter_GetByUserID_JoinsCountry(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewUserPreferenceAdapter(client)
	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`FROM "user_preferences" AS "p" INNER JOIN "countries" AS "c" ON \("c"."id" = "p"."country_id"\) WHERE \("p"."user_id" = \$1\)`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "country_id", "name", "clothing_size", "shoe_size", "shoe_size_system", "updated_at"}).
			AddRow("u-1", 2, "Germany", "L", "44", "EU", updated))

	pref, err := adapter.GetByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, pref.CountryID)
	assert.Equal(t, "Germany", pref.CountryName)
	assert.Equal(t, "L", pref.ClothingSize)
	assert.Equal(t, updated, pref.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPreferenceAdapter_GetByUserID_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewUserPreferenceAdapter(client)

	mock.ExpectQuery(`FROM "user_preferences"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := adapter.GetByUserID(context.Background(), "nobody")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestUserPreferenceAdapter_Create(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewUserPreferenceAdapter(client)

	mock.ExpectExec(`INSERT INTO "user_preferences"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pref := &entities.UserPreference{UserID: "u-1", CountryID: 1, ClothingSize: "M", ShoeSize: "42", ShoeSizeSystem: "EU"}
	require.NoError(t, adapter.Create(context.Background(), pref))
	assert.False(t, pref.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPreferenceAdapter_Create_DuplicateIsConflict(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewUserPreferenceAdapter(client)

	mock.ExpectExec(`INSERT INTO "user_preferences"`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := adapter.Create(context.Background(), &entities.UserPreference{UserID: "u-1", CountryID: 1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestUserPreferenceAdapter_Create_OtherErrorIsInternal(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewUserPreferenceAdapter(client)

	mock.ExpectExec(`INSERT INTO "user_preferences"`).
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign key violation"})

	err := adapter.Create(context.Background(), &entities.UserPreference{UserID: "u-1", CountryID: 77})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestUserPreferenceAdapter_Upsert(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewUserPreferenceAdapter(client)

	mock.ExpectExec(`INSERT INTO "user_preferences" .+ ON CONFLICT \(user_id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	pref := &entities.UserPreference{UserID: "u-1", CountryID: 3, ClothingSize: "S", ShoeSize: "9", ShoeSizeSystem: "US"}
	require.NoError(t, adapter.Upsert(context.Background(), pref))
	assert.NoError(t, mock.ExpectationsWereMet())
}
