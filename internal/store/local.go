package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vitashifa/backend/internal/types"
)

// GuestOwner scopes local records written without an authenticated session.
const GuestOwner = "guest"

// LocalStore keeps each owner's chat log as a single JSON array in Redis,
// newest record last, trimmed to LocalCap entries.
type LocalStore struct {
	redis *redis.Client
}

var _ Store = (*LocalStore)(nil)

func NewLocalStore(client *redis.Client) *LocalStore {
	return &LocalStore{redis: client}
}

func chatKey(ownerID string) string {
	if ownerID == "" {
		ownerID = GuestOwner
	}
	return fmt.Sprintf("vitashifa:chats:%s", ownerID)
}

// Save appends rec to the owner's log and evicts the oldest entries beyond
// the cap. An ID and timestamp are assigned when missing.
func (s *LocalStore) Save(ctx context.Context, ownerID string, rec types.ChatRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	records, err := s.load(ctx, ownerID)
	if err != nil {
		return "", err
	}

	records = append(records, rec)
	if len(records) > LocalCap {
		records = records[len(records)-LocalCap:]
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat log: %w", err)
	}
	if err := s.redis.Set(ctx, chatKey(ownerID), data, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to save chat log to Redis: %w", err)
	}
	return rec.ID, nil
}

// List returns the owner's records newest first, optionally filtered.
func (s *LocalStore) List(ctx context.Context, ownerID string, limit int, f Filter) ([]types.ChatRecord, error) {
	records, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]types.ChatRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if !matches(rec, f) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// All returns every record oldest first, for the sign-in sync pass.
func (s *LocalStore) All(ctx context.Context, ownerID string) ([]types.ChatRecord, error) {
	return s.load(ctx, ownerID)
}

// load reads the owner's log. A missing key is an empty log; a corrupt value
// is logged and treated as empty rather than surfaced.
func (s *LocalStore) load(ctx context.Context, ownerID string) ([]types.ChatRecord, error) {
	data, err := s.redis.Get(ctx, chatKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chat log from Redis: %w", err)
	}

	var records []types.ChatRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("corrupt chat log for %s, starting fresh: %v", ownerID, err)
		return nil, nil
	}
	return records, nil
}

func matches(rec types.ChatRecord, f Filter) bool {
	if f.Category != "" && rec.Category != f.Category {
		return false
	}
	if f.SearchText != "" {
		needle := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(rec.Query), needle) &&
			!strings.Contains(strings.ToLower(rec.Response.Title), needle) {
			return false
		}
	}
	return true
}
