package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SequenceCounter is one named counter row. Prefix is the identifier family
// (coupon numbers, customer numbers) and Value the last number handed out.
type SequenceCounter struct {
	Prefix string `gorm:"type:varchar(20);primary_key"`
	Value  int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceCounter) TableName() string {
	return "sequence_counters"
}

// SequenceAllocator allocates sequential human-readable numbers from a
// per-prefix counter row. The increment happens in a single upsert statement
// so concurrent allocations can never observe the same value.
type SequenceAllocator struct {
	db *gorm.DB
}

// NewSequenceAllocator creates a new SequenceAllocator
func NewSequenceAllocator(db *gorm.DB) *SequenceAllocator {
	return &SequenceAllocator{db: db}
}

// Next returns the next number for the prefix, formatted as PREFIX-0001 style
// with the given zero-padded width
func (a *SequenceAllocator) Next(ctx context.Context, prefix string, width int) (string, error) {
	var value int64
	err := a.db.WithContext(ctx).Raw(
		`INSERT INTO sequence_counters (prefix, value) VALUES (?, 1)
		 ON CONFLICT (prefix) DO UPDATE SET value = sequence_counters.value + 1
		 RETURNING value`,
		prefix,
	).Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("failed to allocate number for prefix %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, value), nil
}
