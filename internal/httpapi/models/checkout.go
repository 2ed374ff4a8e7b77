package models

import "time"

// Checkout links a user to a borrowed book. Rows survive a return
// (is_returned is flipped instead of deleting) so trending and
// recommendation queries keep their history.
type Checkout struct {
	ID           int64      `json:"checkout_id" gorm:"column:checkout_id;primaryKey;autoIncrement"`
	BookID       int64      `json:"book_id" gorm:"not null;index"`
	UserID       string     `json:"user_id" gorm:"type:uuid;not null;index"`
	CheckoutDate time.Time  `json:"checkout_date" gorm:"autoCreateTime;index"`
	DueDate      time.Time  `json:"due_date" gorm:"not null"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	IsReturned   bool       `json:"is_returned" gorm:"not null;default:false;index"`

	// Associations
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Checkout) TableName() string {
	return "checkouts"
}

// TrendingBook pairs a book with its checkout count inside the
// trending window.
type TrendingBook struct {
	Book          Book  `json:"book"`
	CheckoutCount int64 `json:"checkout_count"`
}
