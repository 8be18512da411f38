package validators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeetupValidator(t *testing.T) {
	date := time.Now().Add(time.Hour)

	assert.NoError(t, MeetupValidator("Go Meetup", "Talks", "Berlin", date, 1))

	assert.ErrorIs(t, MeetupValidator("", "Talks", "Berlin", date, 1), ErrTitleEmpty)
	assert.ErrorIs(t, MeetupValidator("Go Meetup", "", "Berlin", date, 1), ErrDescriptionEmpty)
	assert.ErrorIs(t, MeetupValidator("Go Meetup", "Talks", "", date, 1), ErrLocationEmpty)
	assert.ErrorIs(t, MeetupValidator("Go Meetup", "Talks", "Berlin", time.Time{}, 1), ErrDateEmpty)
	assert.ErrorIs(t, MeetupValidator("Go Meetup", "Talks", "Berlin", date, 0), ErrBannerIDInvalid)
}

func TestEmailValidator(t *testing.T) {
	assert.NoError(t, EmailValidator("ana@example.com"))
	assert.ErrorIs(t, EmailValidator(""), ErrEmailEmpty)
	assert.ErrorIs(t, EmailValidator("not an email"), ErrEmailInvalid)
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("long-enough"))
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
}
