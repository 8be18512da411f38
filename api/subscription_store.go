package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"meetgo/meetup-api/model"
	"meetgo/meetup-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errAlreadySubscribed = errors.New("already subscribed")
	errSameInstant       = errors.New("subscribed at same instant")
)

// SubscriptionStore subscribes the caller to someone else's upcoming
// meetup. The duplicate and same-instant checks run inside a transaction;
// the (user_id, meetup_id) unique index closes the remaining race. On
// success a notification task for the organizer is enqueued, without the
// response waiting on delivery.
func (a *API) SubscriptionStore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	meetupID, ok := parseID(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid meetup id",
			"requestID": requestID,
		})
		return
	}

	var meetup model.Meetup

	err := a.DB.
		Preload("User").
		First(&meetup, meetupID).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Meetup not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch meetup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if meetup.IsPast(time.Now().UTC()) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "You can only subscribe to meetups that have not yet happened",
			"requestID": requestID,
		})
		return
	}

	if meetup.UserID == userID {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "You can't subscribe to your own meetup",
			"requestID": requestID,
		})
		return
	}

	sub := model.Subscription{
		UserID:   userID,
		MeetupID: meetup.ID,
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(model.Subscription{}).
			Where("user_id = ? AND meetup_id = ?", userID, meetup.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return errAlreadySubscribed
		}

		if err := tx.Model(model.Subscription{}).
			Joins("JOIN meetups ON meetups.id = subscriptions.meetup_id").
			Where("subscriptions.user_id = ? AND meetups.date = ?", userID, meetup.Date).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return errSameInstant
		}

		return tx.Create(&sub).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errAlreadySubscribed), errors.Is(err, gorm.ErrDuplicatedKey):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "You are already subscribed to this meetup",
				"requestID": requestID,
			})
		case errors.Is(err, errSameInstant):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "You are already subscribed to a meetup that happens at the same time",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to create subscription", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	var subscriber model.User
	if err := a.DB.First(&subscriber, userID).Error; err != nil {
		zap.L().Error("Failed to fetch subscriber for mail", zap.Error(err), zap.String("requestID", requestID))
	} else if meetup.User != nil {
		err = a.Mail.EnqueueSubscriptionMail(context.Background(), &service.SubscriptionMailPayload{
			MeetupTitle:     meetup.Title,
			OrganizerName:   meetup.User.Name,
			OrganizerEmail:  meetup.User.Email,
			SubscriberName:  subscriber.Name,
			SubscriberEmail: subscriber.Email,
		})
		if err != nil {
			// The subscription itself succeeded, so only log this
			zap.L().Error("Failed to enqueue subscription mail", zap.Error(err), zap.String("requestID", requestID))
		}
	}

	c.JSON(http.StatusOK, sub)
}
