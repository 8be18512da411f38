package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"meetgo/meetup-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionStore(t *testing.T) {
	a, mail := newTestAPI(t)
	organizer := createUser(t, a, "Ana", "ana@example.com", "password123")
	subscriber := createUser(t, a, "Bob", "bob@example.com", "password123")

	subTok := token(t, subscriber.ID)
	orgTok := token(t, organizer.ID)

	future := time.Now().UTC().Add(24 * time.Hour)
	meetup := createMeetup(t, a, organizer, "Go Meetup", future)

	t.Run("subscribes and notifies the organizer", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, fmt.Sprintf("/meetups/%d/subscriptions", meetup.ID), subTok, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		body := decodeBody(t, rr)
		assert.Equal(t, float64(subscriber.ID), body["user_id"])
		assert.Equal(t, float64(meetup.ID), body["meetup_id"])

		sent := mail.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "Go Meetup", sent[0].MeetupTitle)
		assert.Equal(t, "Ana", sent[0].OrganizerName)
		assert.Equal(t, "ana@example.com", sent[0].OrganizerEmail)
		assert.Equal(t, "Bob", sent[0].SubscriberName)
		assert.Equal(t, "bob@example.com", sent[0].SubscriberEmail)
	})

	t.Run("second subscription to the same meetup is rejected", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, fmt.Sprintf("/meetups/%d/subscriptions", meetup.ID), subTok, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "You are already subscribed to this meetup", decodeBody(t, rr)["error"])

		var count int64
		require.NoError(t, a.DB.Model(model.Subscription{}).
			Where("user_id = ? AND meetup_id = ?", subscriber.ID, meetup.ID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("same instant conflict", func(t *testing.T) {
		third := createUser(t, a, "Cleo", "cleo@example.com", "password123")
		conflicting := createMeetup(t, a, third, "Same Slot", future)

		rr := doRequest(t, a, http.MethodPost, fmt.Sprintf("/meetups/%d/subscriptions", conflicting.ID), subTok, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "You are already subscribed to a meetup that happens at the same time", decodeBody(t, rr)["error"])
	})

	t.Run("can't subscribe to own meetup", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, fmt.Sprintf("/meetups/%d/subscriptions", meetup.ID), orgTok, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "You can't subscribe to your own meetup", decodeBody(t, rr)["error"])
	})

	t.Run("past meetup", func(t *testing.T) {
		past := createMeetup(t, a, organizer, "Happened", time.Now().UTC().Add(-time.Hour))

		rr := doRequest(t, a, http.MethodPost, fmt.Sprintf("/meetups/%d/subscriptions", past.ID), subTok, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown meetup", func(t *testing.T) {
		rr := doRequest(t, a, http.MethodPost, "/meetups/99999/subscriptions", subTok, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("only one notification was enqueued", func(t *testing.T) {
		assert.Len(t, mail.Sent(), 1)
	})
}

func TestSubscriptionIndex(t *testing.T) {
	a, _ := newTestAPI(t)
	organizer := createUser(t, a, "Ana", "ana@example.com", "password123")
	subscriber := createUser(t, a, "Bob", "bob@example.com", "password123")
	tok := token(t, subscriber.ID)

	now := time.Now().UTC()
	later := createMeetup(t, a, organizer, "Later", now.Add(48*time.Hour))
	sooner := createMeetup(t, a, organizer, "Sooner", now.Add(12*time.Hour))
	past := createMeetup(t, a, organizer, "Past", now.Add(-time.Hour))

	for _, m := range []model.Meetup{later, sooner, past} {
		require.NoError(t, a.DB.Create(&model.Subscription{
			UserID:   subscriber.ID,
			MeetupID: m.ID,
		}).Error)
	}

	rr := doRequest(t, a, http.MethodGet, "/subscriptions?page=1", tok, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []model.Subscription
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))

	// Past meetups drop out, soonest first
	require.Len(t, list, 2)
	assert.Equal(t, sooner.ID, list[0].MeetupID)
	assert.Equal(t, later.ID, list[1].MeetupID)

	require.NotNil(t, list[0].Meetup)
	assert.Equal(t, "Sooner", list[0].Meetup.Title)
	require.NotNil(t, list[0].Meetup.User)
	assert.Equal(t, "Ana", list[0].Meetup.User.Name)
}
