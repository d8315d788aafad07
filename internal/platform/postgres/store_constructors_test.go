package postgres

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreConstructorsRequireDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresUserStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresListingStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresCategoryStore(nil, nil) })
	assert.Panics(t, func() { NewPostgresFavoriteStore(nil, nil) })
}

func TestStoreConstructorsDefaultLogger(t *testing.T) {
	t.Parallel()

	db := &sql.DB{}

	assert.NotNil(t, NewPostgresUserStore(db, nil))
	assert.NotNil(t, NewPostgresListingStore(db, nil))
	assert.NotNil(t, NewPostgresCategoryStore(db, nil))
	assert.NotNil(t, NewPostgresFavoriteStore(db, nil))
}
