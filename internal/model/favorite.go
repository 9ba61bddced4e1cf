package model

import (
	"time"
)

// Favorite 用户收藏的影片
type Favorite struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_user_movie" json:"user_id"`
	MovieID   int64     `gorm:"not null;index;uniqueIndex:idx_user_movie" json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
