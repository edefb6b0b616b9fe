package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDB_UnreachableDatabase(t *testing.T) {
	db, err := NewDB("host=127.0.0.1 port=1 user=nobody password=nope dbname=carteira sslmode=disable connect_timeout=1")

	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestNewDB_MalformedConnectionString(t *testing.T) {
	db, err := NewDB("not a connection string")

	assert.Error(t, err)
	assert.Nil(t, db)
}
