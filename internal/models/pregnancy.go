package models

import "time"

// Pregnancy holds a user's tracked pregnancy. Dates are calendar dates in
// YYYY-MM-DD form. Nothing in the schema stops a user from owning several
// rows; readers always pick the most recently created one.
type Pregnancy struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"index;not null" json:"user_id"`
	ExpectedDeliveryDate string    `gorm:"size:10;not null" json:"expected_delivery_date"`
	LastMenstrualPeriod  *string   `gorm:"size:10" json:"last_menstrual_period"`
	CreatedAt            time.Time `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
