package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fitdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockSequenceGenerator(t *testing.T) (*GormSequenceGenerator, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormSequenceGenerator(gormDB), mock, mockDB
}

func TestGormSequenceGenerator_Next(t *testing.T) {
	scope := shared.Scope{TenantID: uuid.New(), BranchID: uuid.New()}

	// Allocation must stay a single insert-or-increment statement;
	// anything split across a read and a write can double-seed.
	upsertPattern := `INSERT INTO "sequence_counters" .*ON CONFLICT .*DO UPDATE SET .*RETURNING "current"`

	t.Run("seeds a fresh counter at one", func(t *testing.T) {
		gen, mock, mockDB := newMockSequenceGenerator(t)
		defer mockDB.Close()

		mock.ExpectQuery(upsertPattern).
			WillReturnRows(sqlmock.NewRows([]string{"current"}).AddRow(1))

		code, err := gen.Next(context.Background(), scope, shared.SequenceContract)
		require.NoError(t, err)
		assert.Equal(t, "C-000001", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments an existing counter", func(t *testing.T) {
		gen, mock, mockDB := newMockSequenceGenerator(t)
		defer mockDB.Close()

		mock.ExpectQuery(upsertPattern).
			WillReturnRows(sqlmock.NewRows([]string{"current"}).AddRow(42))

		code, err := gen.Next(context.Background(), scope, shared.SequenceReceivable)
		require.NoError(t, err)
		assert.Equal(t, "R-000042", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all sale variants share the S prefix", func(t *testing.T) {
		for _, entityType := range []string{
			shared.SequenceSaleContract,
			shared.SequenceSaleService,
			shared.SequenceSaleProduct,
			shared.SequenceSaleGeneric,
		} {
			gen, mock, mockDB := newMockSequenceGenerator(t)

			mock.ExpectQuery(upsertPattern).
				WillReturnRows(sqlmock.NewRows([]string{"current"}).AddRow(8))

			code, err := gen.Next(context.Background(), scope, entityType)
			require.NoError(t, err)
			assert.Equal(t, "S-000008", code)
			mockDB.Close()
		}
	})

	t.Run("rejects unknown entity types", func(t *testing.T) {
		gen, _, mockDB := newMockSequenceGenerator(t)
		defer mockDB.Close()

		_, err := gen.Next(context.Background(), scope, "warehouse")
		assert.Error(t, err)
	})

	t.Run("rejects an incomplete scope", func(t *testing.T) {
		gen, _, mockDB := newMockSequenceGenerator(t)
		defer mockDB.Close()

		_, err := gen.Next(context.Background(), shared.Scope{TenantID: uuid.New()}, shared.SequenceContract)
		assert.Error(t, err)
	})
}
