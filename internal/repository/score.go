package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository/storage"
)

var ErrSamePlayer = errors.New("a player cannot score against itself")

type ScoreRepository interface {
	RecordWin(ctx context.Context, winnerID, loserID string) (entity.ScoreRecord, error)
	Get(ctx context.Context, a, b string) (entity.ScoreRecord, error)
}

type dbScore struct {
	kv storage.KeyValue
}

func NewScoreRepository(kv storage.KeyValue) ScoreRepository {
	return &dbScore{
		kv: kv,
	}
}

// RecordWin - read-modify-write of the pair's tally; not atomic across processes.
func (that *dbScore) RecordWin(ctx context.Context, winnerID, loserID string) (entity.ScoreRecord, error) {
	if winnerID == loserID {
		return nil, fmt.Errorf("%w: %s", ErrSamePlayer, winnerID)
	}

	record, err := that.Get(ctx, winnerID, loserID)
	if err != nil {
		return nil, err
	}

	record[winnerID]++

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score: %w", err)
	}

	if err = that.kv.Set(ctx, entity.ScoreKey(winnerID, loserID), string(recordJSON)); err != nil {
		return nil, fmt.Errorf("failed to set score: %w", err)
	}

	return record, nil
}

// Get - returns the pair's tally with both ids present, zero when never recorded.
func (that *dbScore) Get(ctx context.Context, a, b string) (entity.ScoreRecord, error) {
	record := entity.NewScoreRecord(a, b)

	response, err := that.kv.Get(ctx, entity.ScoreKey(a, b))
	if errors.Is(err, storage.ErrNotFound) {
		return record, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	var stored entity.ScoreRecord
	if err = json.Unmarshal([]byte(response), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score: %w", err)
	}

	for id, wins := range stored {
		record[id] = wins
	}

	return record, nil
}
