package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository/storage"
)

const profileKey = "tic-tac-toe-profile"

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository keeps the local player's last name and id between runs.
type ProfileRepository interface {
	Save(ctx context.Context, player entity.PlayerIdentity) error
	Load(ctx context.Context) (entity.PlayerIdentity, error)
}

type dbProfile struct {
	kv storage.KeyValue
}

func NewProfileRepository(kv storage.KeyValue) ProfileRepository {
	return &dbProfile{
		kv: kv,
	}
}

func (that *dbProfile) Save(ctx context.Context, player entity.PlayerIdentity) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err = that.kv.Set(ctx, profileKey, string(playerJSON)); err != nil {
		return fmt.Errorf("failed to set profile: %w", err)
	}

	return nil
}

func (that *dbProfile) Load(ctx context.Context) (entity.PlayerIdentity, error) {
	response, err := that.kv.Get(ctx, profileKey)
	if errors.Is(err, storage.ErrNotFound) {
		return entity.PlayerIdentity{}, ErrProfileNotFound
	}

	if err != nil {
		return entity.PlayerIdentity{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var player entity.PlayerIdentity
	if err = json.Unmarshal([]byte(response), &player); err != nil {
		return entity.PlayerIdentity{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return player, nil
}
