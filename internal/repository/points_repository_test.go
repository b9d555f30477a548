package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub-api/internal/models"
)

func TestGetTotals(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "total", "rank", "updated_at"}).
		AddRow("u1", 150, 3, time.Now())
	mock.ExpectQuery("DENSE_RANK").WithArgs("u1").WillReturnRows(rows)

	totals, err := repo.GetTotals(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 150, totals.Total)
	assert.Equal(t, 3, totals.Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPoints(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	mock.ExpectExec("INSERT INTO user_points").
		WithArgs("u1", 10, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AddPoints(context.Background(), "u1", 10, time.Now().UTC())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountEventsSince(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	since := time.Now().Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM point_events")).
		WithArgs("u1", string(models.PointActionPostCreated), since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountEventsSince(context.Background(), "u1", models.PointActionPostCreated, since)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboard(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	rows := sqlmock.NewRows([]string{"user_id", "full_name", "total", "rank"}).
		AddRow("u1", "Top User", 1200, 1).
		AddRow("u2", "Runner Up", 900, 2)
	mock.ExpectQuery("DENSE_RANK").WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	entries, total, err := repo.Leaderboard(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, entries[0].Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboardHonorsBulkLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	mock.ExpectQuery(`LIMIT 1000 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "total", "rank"}).
			AddRow("u1", "Top User", 1200, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, _, err := repo.Leaderboard(context.Background(), 1000, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
