package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockAllocator(t *testing.T) (*SequenceAllocator, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewSequenceAllocator(gormDB), mock, mockDB
}

func TestSequenceAllocator_Next(t *testing.T) {
	t.Run("formats first allocation with zero padding", func(t *testing.T) {
		allocator, mock, mockDB := newMockAllocator(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters`).
			WithArgs("AKR-C").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))

		number, err := allocator.Next(context.Background(), "AKR-C", 4)

		assert.NoError(t, err)
		assert.Equal(t, "AKR-C-0001", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("continues an existing counter", func(t *testing.T) {
		allocator, mock, mockDB := newMockAllocator(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters`).
			WithArgs("AKR-CUS").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(42)))

		number, err := allocator.Next(context.Background(), "AKR-CUS", 4)

		assert.NoError(t, err)
		assert.Equal(t, "AKR-CUS-0042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("grows beyond the padded width", func(t *testing.T) {
		allocator, mock, mockDB := newMockAllocator(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters`).
			WithArgs("AKR-C").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(12345)))

		number, err := allocator.Next(context.Background(), "AKR-C", 4)

		assert.NoError(t, err)
		assert.Equal(t, "AKR-C-12345", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		allocator, mock, mockDB := newMockAllocator(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO sequence_counters`).
			WithArgs("AKR-C").
			WillReturnError(sql.ErrConnDone)

		number, err := allocator.Next(context.Background(), "AKR-C", 4)

		assert.Error(t, err)
		assert.Empty(t, number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
