package controllers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pgstay-backend/middleware"
	"pgstay-backend/services"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func updateGuestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	gc := NewGuestController(nil, services.NewGuestService(db, log), nil, nil, log)
	r := gin.New()
	r.Use(middleware.UserContext())
	r.PUT("/api/buildings/:buildingid/guests", gc.UpdateGuest)
	return r, mock
}

func multipartRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("PUT", target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.UserIDHeader, "42")
	return req
}

func updatedGuestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "building_id", "name", "stay", "is_complete"}).
		AddRow(3, 42, 1, "Asha K", true, true)
}

// A partial update must only touch the fields that were sent. In particular
// it must not rewrite is_complete, which would move a finished registration
// back into the pending list.
func TestUpdateGuestPartial(t *testing.T) {
	t.Run("name only leaves is_complete alone", func(t *testing.T) {
		r, mock := updateGuestRouter(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `guests` SET `name`=\\?,`updated_at`=\\? WHERE user_id = \\? AND building_id = \\?").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT (.+) FROM `guests` WHERE user_id = \\? AND building_id = \\?").
			WillReturnRows(updatedGuestRows())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "/api/buildings/1/guests", map[string]string{
			"name": "Asha K",
		}))

		assert.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
		assert.Contains(t, w.Body.String(), `"isComplete":true`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("explicit isComplete is written", func(t *testing.T) {
		r, mock := updateGuestRouter(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `guests` SET `is_complete`=\\?,`name`=\\?,`updated_at`=\\? WHERE user_id = \\? AND building_id = \\?").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT (.+) FROM `guests` WHERE user_id = \\? AND building_id = \\?").
			WillReturnRows(updatedGuestRows())

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, "/api/buildings/1/guests", map[string]string{
			"name":       "Asha K",
			"isComplete": "true",
		}))

		assert.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
