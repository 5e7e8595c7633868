// internal/store/sql.go
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// documentRecord is the row layout of the SQL backend: every collection
// shares one table keyed by (collection, id); seq keeps insertion order.
type documentRecord struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:64"`
	Seq        int64  `gorm:"not null;index"`
	Body       string `gorm:"type:text;not null"`
}

func (documentRecord) TableName() string {
	return "documents"
}

type sqlBackend struct {
	db *gorm.DB
}

// NewSQLStore stores documents as JSON rows through gorm. The caller owns
// the connection; Close on the returned store closes it.
func NewSQLStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return newEngine(&sqlBackend{db: db}), nil
}

func (b *sqlBackend) name() string { return "sql" }

func (b *sqlBackend) load(ctx context.Context, collection string) ([]Document, error) {
	var rows []documentRecord
	if err := b.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		var doc Document
		if err := json.Unmarshal([]byte(row.Body), &doc); err != nil {
			return nil, fmt.Errorf("parse document %s/%s: %w", collection, row.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (b *sqlBackend) apply(ctx context.Context, collection string, _ []Document, m mutation) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch m.kind {
		case mutationInsert:
			var maxSeq int64
			if err := tx.Model(&documentRecord{}).
				Where("collection = ?", collection).
				Select("COALESCE(MAX(seq), 0)").
				Scan(&maxSeq).Error; err != nil {
				return err
			}
			rows := make([]documentRecord, 0, len(m.docs))
			for i, doc := range m.docs {
				body, err := json.Marshal(doc)
				if err != nil {
					return err
				}
				rows = append(rows, documentRecord{
					Collection: collection,
					ID:         doc.ID(),
					Seq:        maxSeq + int64(i) + 1,
					Body:       string(body),
				})
			}
			return tx.Create(&rows).Error

		case mutationReplace:
			for _, doc := range m.docs {
				body, err := json.Marshal(doc)
				if err != nil {
					return err
				}
				if err := tx.Model(&documentRecord{}).
					Where("collection = ? AND id = ?", collection, doc.ID()).
					Update("body", string(body)).Error; err != nil {
					return err
				}
			}
			return nil

		case mutationDelete:
			for _, doc := range m.docs {
				if err := tx.Where("collection = ? AND id = ?", collection, doc.ID()).
					Delete(&documentRecord{}).Error; err != nil {
					return err
				}
			}
			return nil
		}
		return fmt.Errorf("unknown mutation %d", m.kind)
	})
}

func (b *sqlBackend) close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
