package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, status *entity.SessionStatus) error
	GetByPort(ctx context.Context, port int) (*entity.SessionStatus, error)
	DeleteByPort(ctx context.Context, port int) error
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository - stores live session snapshots that expire after ttl. A zero ttl keeps them forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(port int) string {
	return "session:" + strconv.Itoa(port)
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, status *entity.SessionStatus) error {
	statusJSON, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	err = that.client.Set(ctx, sessionKey(status.Port), statusJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByPort(ctx context.Context, port int) (*entity.SessionStatus, error) {
	response, err := that.client.Get(ctx, sessionKey(port)).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.SessionStatus{}, ErrSessionNotFound
	}

	if err != nil {
		return &entity.SessionStatus{}, fmt.Errorf("%w by port", err)
	}

	var status entity.SessionStatus
	if err = json.Unmarshal([]byte(response), &status); err != nil {
		return &entity.SessionStatus{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &status, nil
}

func (that *dbSession) DeleteByPort(ctx context.Context, port int) error {
	err := that.client.Del(ctx, sessionKey(port)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session by port: %w", err)
	}

	return nil
}
