package model

import (
	"time"
)

type Movie struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null;index" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Genre       string    `gorm:"size:100;not null" json:"genre"`
	Year        int       `gorm:"not null" json:"year"`
	Duration    string    `gorm:"size:50;not null" json:"duration"` // 如 "2h 12min"、"16 episódios"，格式不统一
	Rating      float64   `gorm:"type:decimal(3,1)" json:"rating"`  // 0-10
	Price       float64   `gorm:"type:decimal(10,2)" json:"price"`
	Poster      string    `gorm:"size:500;not null" json:"poster"`
	Trailer     *string   `gorm:"size:500" json:"trailer,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}
