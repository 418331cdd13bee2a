package bootstrap

import (
	"context"
	"testing"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(env string) *config.Config {
	return &config.Config{
		Env:          env,
		DBDriver:     database.DriverSQLite,
		DBSQLitePath: ":memory:",
	}
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		env       string
		wantUsers int64
	}{
		{name: "development seeds", env: "development", wantUsers: 10},
		{name: "test does not seed", env: "test", wantUsers: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sqliteConfig(tt.env)
			db, err := database.Connect(ctx, cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close(db) })

			require.NoError(t, seedIfEmpty(ctx, cfg, db))
			// A second run leaves a populated database alone.
			require.NoError(t, seedIfEmpty(ctx, cfg, db))

			var users int64
			require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
			assert.Equal(t, tt.wantUsers, users)
		})
	}
}
