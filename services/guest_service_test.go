package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestListOptionsNormalized(t *testing.T) {
	t.Run("defaults survive", func(t *testing.T) {
		opts := DefaultGuestListOptions().Normalized()
		assert.True(t, opts.Stay)
		assert.Equal(t, "amount", opts.SortBy)
		assert.Equal(t, "desc", opts.Order)
		assert.Equal(t, 1, opts.Page)
		assert.Equal(t, 10, opts.Limit)
	})

	t.Run("unknown sort column falls back", func(t *testing.T) {
		opts := GuestListOptions{SortBy: "guests.password; DROP TABLE guests", Order: "desc"}.Normalized()
		assert.Equal(t, "amount", opts.SortBy)
		assert.Equal(t, "rooms.amount desc", opts.orderClause())
	})

	t.Run("order is asc or desc only", func(t *testing.T) {
		opts := GuestListOptions{SortBy: "name", Order: "sideways"}.Normalized()
		assert.Equal(t, "guests.name desc", opts.orderClause())

		opts = GuestListOptions{SortBy: "name", Order: "asc"}.Normalized()
		assert.Equal(t, "guests.name asc", opts.orderClause())
	})

	t.Run("paging is clamped", func(t *testing.T) {
		opts := GuestListOptions{Page: -3, Limit: 0}.Normalized()
		assert.Equal(t, 1, opts.Page)
		assert.Equal(t, 10, opts.Limit)

		opts = GuestListOptions{Page: 2, Limit: 5000}.Normalized()
		assert.Equal(t, 100, opts.Limit)
	})
}

func TestGuestList(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	svc := NewGuestService(db, testLogger())

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `guests` LEFT JOIN rooms").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT guests\\.\\* FROM `guests` LEFT JOIN rooms").
		WillReturnRows(sqlmock.NewRows([]string{"id", "building_id", "room_id", "name", "stay"}).
			AddRow(1, 1, 7, "Asha", true).
			AddRow(2, 1, 7, "Binod", true))
	// Preloads: Room, InvoiceHistory, PaymentHistory.
	mock.ExpectQuery("SELECT (.+) FROM `rooms` WHERE `rooms`\\.`id`").
		WillReturnRows(roomRows(7, 1, 2, `[1,2]`))
	mock.ExpectQuery("SELECT (.+) FROM `invoices` WHERE `invoices`\\.`guest_id`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "guest_id", "amount"}))
	mock.ExpectQuery("SELECT (.+) FROM `payments` WHERE `payments`\\.`guest_id`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "guest_id", "amount"}))

	page, err := svc.List(context.Background(), 1, DefaultGuestListOptions())
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.True(t, page.Stay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestCheck(t *testing.T) {
	t.Run("registration exists", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewGuestService(db, testLogger())

		mock.ExpectQuery("SELECT (.+) FROM `guests` WHERE building_id = \\? AND finder_id = \\?").
			WillReturnRows(guestRow(3, 1, 7, true))

		guest, err := svc.Check(context.Background(), 1, 42)
		require.NoError(t, err)
		require.NotNil(t, guest)
		assert.Equal(t, uint(3), guest.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no registration means nil, not an error", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewGuestService(db, testLogger())

		mock.ExpectQuery("SELECT (.+) FROM `guests` WHERE building_id = \\? AND finder_id = \\?").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		guest, err := svc.Check(context.Background(), 1, 42)
		require.NoError(t, err)
		assert.Nil(t, guest)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateRegistration(t *testing.T) {
	t.Run("protected columns are dropped", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewGuestService(db, testLogger())

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `guests` SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT (.+) FROM `guests` WHERE user_id = \\? AND building_id = \\?").
			WillReturnRows(guestRow(3, 1, 7, true))

		guest, err := svc.UpdateRegistration(context.Background(), 42, 1, map[string]interface{}{
			"name":        "Asha K",
			"finder_id":   999, // must not pass through
			"building_id": 999,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(3), guest.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching registration", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewGuestService(db, testLogger())

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `guests` SET").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		_, err := svc.UpdateRegistration(context.Background(), 42, 1, map[string]interface{}{"name": "Asha"})
		assert.ErrorIs(t, err, ErrGuestNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
