package model

import "time"

// Subscription joins a user to someone else's meetup. The unique index on
// (user_id, meetup_id) backs the duplicate-subscription rule at the
// storage layer.
type Subscription struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_meetup" json:"user_id"`
	MeetupID uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_meetup" json:"meetup_id"`

	Meetup *Meetup `json:"meetup,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
