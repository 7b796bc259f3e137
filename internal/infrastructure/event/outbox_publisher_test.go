package event

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func publisherFixture(t *testing.T) (*OutboxPublisher, *gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	serializer := NewEventSerializer()
	serializer.Register("ContractCreated", &stubEvent{})
	return NewOutboxPublisher(serializer), db, mock
}

func expectOutboxInsert(mock sqlmock.Sqlmock, rows int) {
	now := time.Now()
	returned := sqlmock.NewRows([]string{"created_at", "updated_at"})
	for range rows {
		returned.AddRow(now, now)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).WillReturnRows(returned)
}

func TestOutboxPublisher_SaveEvents(t *testing.T) {
	publisher, db, mock := publisherFixture(t)

	mock.ExpectBegin()
	expectOutboxInsert(mock, 1)
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.SaveEvents(context.Background(), tx, newStubEvent("ContractCreated", randomScope()))
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxPublisher_SaveEvents_Batch(t *testing.T) {
	publisher, db, mock := publisherFixture(t)

	mock.ExpectBegin()
	expectOutboxInsert(mock, 3)
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.PublishWithTx(context.Background(), tx,
			newStubEvent("ContractCreated", randomScope()),
			newStubEvent("ContractCreated", randomScope()),
			newStubEvent("ContractCreated", randomScope()),
		)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxPublisher_SaveEvents_NoEventsNoInsert(t *testing.T) {
	publisher, db, mock := publisherFixture(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.SaveEvents(context.Background(), tx)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxPublisher_SaveEvents_WrongTxType(t *testing.T) {
	serializer := NewEventSerializer()
	publisher := NewOutboxPublisher(serializer)

	err := publisher.SaveEvents(context.Background(), "not a tx", newStubEvent("ContractCreated", randomScope()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "*gorm.DB")
}

func TestOutboxPublisher_RollbackDiscardsEvents(t *testing.T) {
	publisher, db, mock := publisherFixture(t)

	mock.ExpectBegin()
	expectOutboxInsert(mock, 1)
	mock.ExpectRollback()

	failure := errors.New("aggregate write failed")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := publisher.PublishWithTx(context.Background(), tx, newStubEvent("ContractCreated", randomScope())); err != nil {
			return err
		}
		return failure
	})

	require.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}
