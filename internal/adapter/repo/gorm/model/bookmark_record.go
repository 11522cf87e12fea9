package model

import "time"

type BookmarkRecord struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Token     string    `gorm:"column:token;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (BookmarkRecord) TableName() string {
	return "bookmark_records"
}
