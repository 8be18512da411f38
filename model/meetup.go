package model

import "time"

// Meetup is owned by its organizer (UserID). The composite unique index on
// (user_id, date) is what ultimately guarantees a user can't organize two
// meetups at the same instant, even under concurrent requests.
type Meetup struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Location    string    `gorm:"not null" json:"location"`
	Date        time.Time `gorm:"not null;uniqueIndex:idx_meetups_organizer_date" json:"date"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_meetups_organizer_date" json:"user_id"`
	BannerID    uint      `json:"banner_id"`

	// Derived at read time, never stored
	Past bool `gorm:"-" json:"past"`

	User   *User `json:"user,omitempty"`
	Banner *File `json:"banner,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsPast reports whether the meetup's date is at or before now,
// which makes it immutable
func (m *Meetup) IsPast(now time.Time) bool {
	return !m.Date.After(now)
}
