package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(pgErr))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", pgErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isForeignKeyViolation(errors.New("23503")))
}

func TestClampPage(t *testing.T) {
	l, o := clampPage(0, -5)
	assert.Equal(t, 100, l)
	assert.Equal(t, 0, o)

	l, o = clampPage(10, 20)
	assert.Equal(t, 10, l)
	assert.Equal(t, 20, o)

	l, _ = clampPage(10000, 0)
	assert.Equal(t, 100, l)
}
