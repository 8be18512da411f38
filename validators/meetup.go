package validators

import (
	"errors"
	"time"
)

var (
	ErrTitleEmpty       = errors.New("no title provided")
	ErrDescriptionEmpty = errors.New("no description provided")
	ErrLocationEmpty    = errors.New("no location provided")
	ErrDateEmpty        = errors.New("no date provided")
	ErrBannerIDInvalid  = errors.New("invalid banner id provided")
)

const maxTitleLen = 255

var ErrTitleTooLong = errors.New("title is too long")

// MeetupValidator checks the payload of a new meetup. Partial updates
// validate field by field instead since everything is optional there.
func MeetupValidator(title, description, location string, date time.Time, bannerID uint) error {
	if title == "" {
		return ErrTitleEmpty
	}

	if len(title) > maxTitleLen {
		return ErrTitleTooLong
	}

	if description == "" {
		return ErrDescriptionEmpty
	}

	if location == "" {
		return ErrLocationEmpty
	}

	if date.IsZero() {
		return ErrDateEmpty
	}

	if bannerID == 0 {
		return ErrBannerIDInvalid
	}

	return nil
}
