package toml

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/settingsync/settingsync/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()

	config := viper.New()
	config.Set("store.path", filepath.Join(t.TempDir(), "clients.toml"))

	directory, err := NewDirectory(config)
	require.NoError(t, err)
	return directory
}

func TestDirectoryRoundTrip(t *testing.T) {
	t.Parallel()

	directory := newTestDirectory(t)

	first := domain.ClientDefinition{
		Name:                   "OrderService",
		SecretHash:             domain.HashSecret("secret-1"),
		LastSettingValueUpdate: time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC),
	}
	second := domain.ClientDefinition{
		Name:       "OrderService",
		Instance:   "eu-west",
		SecretHash: domain.HashSecret("secret-2"),
	}

	require.NoError(t, directory.Save(context.Background(), first))
	require.NoError(t, directory.Save(context.Background(), second))

	got, err := directory.Get(context.Background(), "OrderService", "")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = directory.Get(context.Background(), "OrderService", "eu-west")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	defs, err := directory.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ClientDefinition{first, second}, defs)
}

func TestDirectoryGetUnknownClient(t *testing.T) {
	t.Parallel()

	directory := newTestDirectory(t)

	_, err := directory.Get(context.Background(), "Unknown", "")
	require.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestDirectorySaveOverwritesSameIdentity(t *testing.T) {
	t.Parallel()

	directory := newTestDirectory(t)

	def := domain.ClientDefinition{Name: "OrderService", SecretHash: domain.HashSecret("old")}
	require.NoError(t, directory.Save(context.Background(), def))

	def.SecretHash = domain.HashSecret("new")
	def.LastSettingValueUpdate = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, directory.Save(context.Background(), def))

	defs, err := directory.List(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, def, defs[0])
}

func TestDirectorySaveRejectsInvalidDefinition(t *testing.T) {
	t.Parallel()

	directory := newTestDirectory(t)

	err := directory.Save(context.Background(), domain.ClientDefinition{Instance: "eu"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}
