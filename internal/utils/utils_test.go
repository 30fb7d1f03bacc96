package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPGErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsPGUniqueViolation(unique))
	assert.False(t, IsPGForeignKeyViolation(unique))
	assert.True(t, IsPGForeignKeyViolation(fk))
	assert.False(t, IsPGUniqueViolation(errors.New("boom")))
	assert.False(t, IsPGUniqueViolation(nil))
}
