package models

import "time"

type Book struct {
	ID             int64      `json:"book_id" gorm:"column:book_id;primaryKey;autoIncrement"`
	ISBN           *string    `json:"isbn,omitempty" gorm:"uniqueIndex;size:20"`
	Title          string     `json:"title" gorm:"not null"`
	Author         string     `json:"author" gorm:"not null;index"`
	YearPublished  *int       `json:"year_published,omitempty" gorm:"index"`
	Genre          *string    `json:"genre,omitempty" gorm:"index"`
	ImageURL       *string    `json:"image_url,omitempty"`
	IsBooked       bool       `json:"is_booked" gorm:"not null;default:false"`
	BookedByUserID *string    `json:"booked_by_user_id,omitempty" gorm:"type:uuid"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

func (Book) TableName() string {
	return "books"
}
