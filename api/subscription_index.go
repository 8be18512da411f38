package api

import (
	"net/http"
	"time"

	"meetgo/meetup-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubscriptionIndex lists the caller's subscriptions to meetups that
// haven't happened yet, closest date first
func (a *API) SubscriptionIndex(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	page := parsePage(c.DefaultQuery("page", "1"))

	var subs []model.Subscription

	err := a.DB.
		Joins("JOIN meetups ON meetups.id = subscriptions.meetup_id").
		Where("subscriptions.user_id = ? AND meetups.date > ?", userID, time.Now().UTC()).
		Order("meetups.date asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Preload("Meetup").
		Preload("Meetup.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar_id")
		}).
		Preload("Meetup.Banner").
		Find(&subs).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch subscriptions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, subs)
}
