package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithPrefix_Defaults(t *testing.T) {
	cfg, err := LoadWithPrefix("ADOPTIONTEST")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, 5432, cfg.DBConfig.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadWithPrefix_FromEnv(t *testing.T) {
	t.Setenv("ADOPTIONTEST_SERVICE_PORT", "9090")
	t.Setenv("ADOPTIONTEST_APP_ENV", "production")
	t.Setenv("ADOPTIONTEST_DB_HOST", "db")
	t.Setenv("ADOPTIONTEST_DB_PORT", "6543")
	t.Setenv("ADOPTIONTEST_DB_NAME", "adopt")
	t.Setenv("ADOPTIONTEST_KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ADOPTIONTEST_KAFKA_GROUP_PREFIX", "stg-")
	t.Setenv("ADOPTIONTEST_CORS_ALLOWED_ORIGINS", "https://adopt.example.com,https://admin.example.com")

	cfg, err := LoadWithPrefix("ADOPTIONTEST")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "db", cfg.DBConfig.Host)
	assert.Equal(t, 6543, cfg.DBConfig.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, "stg-", cfg.KafkaConfig.GroupPrefix)
	assert.Equal(t, []string{"https://adopt.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "host=db port=6543 user=postgres password=postgres dbname=adopt sslmode=disable", cfg.DBConfig.DSN())
	assert.Equal(t, "postgres://postgres:postgres@db:6543/adopt?sslmode=disable", cfg.DBConfig.DatabaseURL())
}

func TestLoadWithPrefix_InvalidValues(t *testing.T) {
	t.Setenv("ADOPTIONTEST_KAFKA_BROKERS", " , ")
	_, err := LoadWithPrefix("ADOPTIONTEST")
	assert.Error(t, err)
}

func TestLoadWithPrefix_InvalidPort(t *testing.T) {
	t.Setenv("ADOPTIONTEST_DB_PORT", "nope")
	_, err := LoadWithPrefix("ADOPTIONTEST")
	assert.Error(t, err)
}
