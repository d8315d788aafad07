package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSQLTransactor(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewSQLTransactor(nil) })
	assert.NotNil(t, NewSQLTransactor(&sql.DB{}))
}
