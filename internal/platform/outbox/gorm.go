package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

var _ Store = (*GormStore)(nil)

// GormStore persists outbox records in PostgreSQL. Bound to a transaction handle it appends
// atomically with the surrounding writes.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type recordRow struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	EventID   string          `gorm:"column:event_id;size:64;uniqueIndex"`
	Topic     string          `gorm:"column:topic;size:255"`
	Key       string          `gorm:"column:key;size:255"`
	Payload   json.RawMessage `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	SentAt    *time.Time      `gorm:"column:sent_at;index"`
}

func (recordRow) TableName() string { return "outbox" }

func (s *GormStore) Append(ctx context.Context, msg Message) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	row := recordRow{EventID: msg.EventID, Topic: msg.Topic, Key: msg.Key, Payload: msg.Payload}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *GormStore) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rows []recordRow
	if err := s.db.WithContext(ctx).Where("sent_at IS NULL").Order("id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			ID:        row.ID,
			EventID:   row.EventID,
			Topic:     row.Topic,
			Key:       row.Key,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
			SentAt:    row.SentAt,
		})
	}
	return records, nil
}

func (s *GormStore) MarkSent(ctx context.Context, id int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&recordRow{}).Where("id = ?", id).Update("sent_at", gorm.Expr("NOW()")).Error
}

func (s *GormStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres outbox store not configured")
	}
	return nil
}
