package errors

import (
	"database/sql/driver"
	"errors"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromDB_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: KindNotFound},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: KindConflict},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: KindConflict},
		{name: "mysql row is referenced", err: &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}, want: KindReferentialIntegrity},
		{name: "mysql missing referenced row", err: &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, want: KindReferentialIntegrity},
		{name: "mysql cannot connect", err: &mysql.MySQLError{Number: 2002, Message: "Can't connect"}, want: KindConnectivity},
		{name: "bad connection", err: driver.ErrBadConn, want: KindConnectivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDB("user", tt.err)
			assert.Equal(t, tt.want, KindOf(got))
		})
	}
}

func TestFromDB_PassThrough(t *testing.T) {
	assert.Nil(t, FromDB("user", nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, FromDB("user", plain))

	// Already classified errors come back unchanged.
	classified := Conflict("user", "email")
	assert.Equal(t, classified, FromDB("user", classified))
}

func TestFromDB_WrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("query failed"), gorm.ErrRecordNotFound)
	assert.True(t, IsNotFound(FromDB("order", wrapped)))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsValidation(Validation("user", "email", "required")))
	assert.True(t, IsNotFound(NotFound("user")))
	assert.True(t, IsConflict(Conflict("user", "email")))
	assert.True(t, IsReferentialIntegrity(ReferentialIntegrity("category", "has products")))
	assert.True(t, IsConnectivity(Connectivity(errors.New("dial tcp"))))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: Validation("user", "email", "required"), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "not found", err: NotFound("user"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "conflict", err: Conflict("user", "email"), wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "referential integrity", err: ReferentialIntegrity("category", "has products"), wantStatus: http.StatusConflict, wantCode: "REFERENTIAL_INTEGRITY"},
		{name: "connectivity", err: Connectivity(errors.New("dial tcp")), wantStatus: http.StatusServiceUnavailable, wantCode: "STORAGE_UNAVAILABLE"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, h.StatusCode)
			assert.Equal(t, tt.wantCode, h.Code)
		})
	}
}

func TestMapErrorToHTTP_ValidationCarriesField(t *testing.T) {
	h := MapErrorToHTTP(Validation("user", "email", "required"))
	assert.Equal(t, "email", h.Field)
	assert.Equal(t, "email", h.ToErrorResponse().Field)
}
