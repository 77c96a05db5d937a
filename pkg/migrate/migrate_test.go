package migrate

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailflow-api/internal/infrastructure/postgres/migrations"
)

func TestRun_SinDBFalla(t *testing.T) {
	err := Run(context.Background(), nil, fstest.MapFS{}, "up")
	require.Error(t, err)
}

func TestMigrateToVersion_VersionInvalida(t *testing.T) {
	err := MigrateToVersion(context.Background(), nil, fstest.MapFS{}, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version")
}

func TestMigrations_EsquemaEmbebidoEsParseable(t *testing.T) {
	require.NoError(t, prepare(migrations.FS))
	ms, err := goose.CollectMigrations(Dir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, int64(1), ms[0].Version)
}
