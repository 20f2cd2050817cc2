package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Defimaso/Diario362-sub001/config"
)

func TestFromCentralConfigDefaults(t *testing.T) {
	c := FromCentralConfig(config.DatabaseConfig{User: "diario", Password: "pw", DBName: "diario"})

	assert.Equal(t, "host=localhost port=5432 user=diario password=pw dbname=diario sslmode=disable", c.DSN())
	assert.Equal(t, 25, c.MaxOpenConns)
	assert.Equal(t, 200*time.Millisecond, c.SlowQueryThreshold())
	assert.Equal(t, 5*time.Minute, c.ConnMaxLifetime())
}

func TestValidDatabaseName(t *testing.T) {
	assert.True(t, validDatabaseName("diario_casbin"))
	assert.False(t, validDatabaseName("1diario"))
	assert.False(t, validDatabaseName("diario; DROP"))
	assert.False(t, validDatabaseName(""))
}
