package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository/storage"
)

func TestProfileRepository(t *testing.T) {
	t.Run("Load_NotFound", func(t *testing.T) {
		profileRepo := NewProfileRepository(newFileKV(t))

		// When: nothing was ever saved
		_, err := profileRepo.Load(context.Background())

		// Then: ErrProfileNotFound is returned
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	backends(t, func(t *testing.T, ctx context.Context, kv storage.KeyValue) {
		profileRepo := NewProfileRepository(kv)

		// Given: a saved identity
		player := entity.PlayerIdentity{ID: "alice123", DisplayName: "alice"}
		require.NoError(t, profileRepo.Save(ctx, player))

		// When: loading it back
		loaded, err := profileRepo.Load(ctx)

		// Then: it is the same identity
		require.NoError(t, err)
		assert.Equal(t, player, loaded)
	})
}
