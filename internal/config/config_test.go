package config

import (
	"testing"

	"github.com/ivesbwas/bwas/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20, cfg.Authorization.PageSize)
	assert.Equal(t, "BWAS", cfg.Authorization.AppName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Configuration)
		wantErr bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Configuration) {},
		},
		{
			name:    "unknown store driver",
			mutate:  func(c *Configuration) { c.Store.Driver = "mongo" },
			wantErr: true,
		},
		{
			name: "dynamodb without table",
			mutate: func(c *Configuration) {
				c.Store.Driver = types.StoreDriverDynamoDB
				c.DynamoDB.TableName = ""
			},
			wantErr: true,
		},
		{
			name:    "zero page size",
			mutate:  func(c *Configuration) { c.Authorization.PageSize = 0 },
			wantErr: true,
		},
		{
			name:    "signature url missing",
			mutate:  func(c *Configuration) { c.Signature.BaseURL = "" },
			wantErr: true,
		},
		{
			name: "kafka events without brokers",
			mutate: func(c *Configuration) {
				c.Events.Enabled = true
				c.Events.PubSub = types.KafkaPubSub
				c.Kafka.Brokers = nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("BWAS_AUTHORIZATION_PAGE_SIZE", "5")
	t.Setenv("BWAS_AUTHORIZATION_APP_NAME", "TESTAPP")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Authorization.PageSize)
	assert.Equal(t, "TESTAPP", cfg.Authorization.AppName)
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{User: "u", Password: "p", DBName: "d", Host: "h", Port: 5432, SSLMode: "disable"}
	assert.Equal(t, "user=u password=p dbname=d host=h port=5432 sslmode=disable", c.GetDSN())
}
