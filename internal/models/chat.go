package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JSONBlob is a custom type for arbitrary JSON documents stored in a
// jsonb (Postgres) or text (SQLite) column.
type JSONBlob json.RawMessage

// Value implements the driver.Valuer interface
func (b JSONBlob) Value() (driver.Value, error) {
	if len(b) == 0 {
		return "{}", nil
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (b *JSONBlob) Scan(value interface{}) error {
	if value == nil {
		*b = JSONBlob("{}")
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*b = JSONBlob(append([]byte(nil), v...))
	case string:
		*b = JSONBlob(v)
	}
	return nil
}

// MarshalJSON returns the blob verbatim.
func (b JSONBlob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

// UnmarshalJSON stores the raw document.
func (b *JSONBlob) UnmarshalJSON(data []byte) error {
	*b = JSONBlob(append([]byte(nil), data...))
	return nil
}

// Chat is one persisted interaction row in the cloud store. The formatted
// response and request metadata are stored as JSON documents.
type Chat struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Category  string    `gorm:"size:32;not null;index" json:"category"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Query     string    `gorm:"type:text;not null" json:"query"`
	Response  JSONBlob  `gorm:"type:jsonb;not null;default:'{}'" json:"response"`
	Metadata  JSONBlob  `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the Chat model
func (Chat) TableName() string {
	return "chats"
}
