package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "postgres://u:p@db:5432/quotes?sslmode=disable", DSN(ClientConfig{
		Host: "db", User: "u", Password: "p", Database: "quotes",
	}))
	assert.Equal(t, "postgres://u:p@db:6543/quotes?sslmode=require", DSN(ClientConfig{
		Host: "db", Port: 6543, User: "u", Password: "p", Database: "quotes", SSLMode: "require",
	}))
	assert.Equal(t, "postgres://explicit", DSN(ClientConfig{DSN: "postgres://explicit", Host: "ignored"}))
}

func TestMigrationNamesSorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_markets.sql", "002_orders.sql"}, names)
}
