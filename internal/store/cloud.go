package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitashifa/backend/internal/models"
	"github.com/vitashifa/backend/internal/types"
)

// CloudStore persists chats as rows scoped to the authenticated user.
type CloudStore struct {
	db *gorm.DB
}

var _ Store = (*CloudStore)(nil)

func NewCloudStore(db *gorm.DB) *CloudStore {
	return &CloudStore{db: db}
}

// Save inserts one chat row for ownerID, which must be a user UUID.
func (s *CloudStore) Save(ctx context.Context, ownerID string, rec types.ChatRecord) (string, error) {
	userID, err := uuid.Parse(ownerID)
	if err != nil {
		return "", fmt.Errorf("invalid owner id %q: %w", ownerID, err)
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	response, err := json.Marshal(rec.Response)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	chat := models.Chat{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  string(rec.Category),
		Timestamp: rec.Timestamp,
		Query:     rec.Query,
		Response:  models.JSONBlob(response),
		Metadata:  models.JSONBlob(metadata),
	}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return "", fmt.Errorf("failed to insert chat: %w", err)
	}
	return chat.ID.String(), nil
}

// List returns the user's chats newest first, optionally filtered by
// category and a case-insensitive match against the query text and the
// formatted response's title.
func (s *CloudStore) List(ctx context.Context, ownerID string, limit int, f Filter) ([]types.ChatRecord, error) {
	userID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id %q: %w", ownerID, err)
	}

	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC")
	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	// The free-text filter runs in Go below, so applying the limit in SQL
	// would drop older matching rows. When searching, fetch everything and
	// cut after filtering.
	if limit > 0 && f.SearchText == "" {
		q = q.Limit(limit)
	}

	var rows []models.Chat
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	records := make([]types.ChatRecord, 0, len(rows))
	for _, row := range rows {
		rec := types.ChatRecord{
			ID:        row.ID.String(),
			Category:  types.ChatCategory(row.Category),
			Timestamp: row.Timestamp,
			Query:     row.Query,
		}
		if err := json.Unmarshal(row.Response, &rec.Response); err != nil {
			rec.Response = types.FormattedResponse{Title: "Unreadable response"}
		}
		_ = json.Unmarshal(row.Metadata, &rec.Metadata)

		// Free-text matching happens here rather than in SQL so that the
		// response title, stored inside the JSON document, participates.
		if f.SearchText != "" && !matches(rec, Filter{SearchText: f.SearchText}) {
			continue
		}
		records = append(records, rec)
		if limit > 0 && len(records) == limit {
			break
		}
	}
	return records, nil
}
