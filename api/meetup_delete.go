package api

import (
	"net/http"
	"time"

	"meetgo/meetup-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MeetupDelete hard-deletes an upcoming meetup owned by the caller and
// returns its prior state
func (a *API) MeetupDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	id, ok := parseID(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid meetup id",
			"requestID": requestID,
		})
		return
	}

	var meetup model.Meetup
	if err := a.DB.First(&meetup, id).Error; err != nil {
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

	if meetup.UserID != userID {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "You don't have permission to delete this meetup",
			"requestID": requestID,
		})
		return
	}

	if meetup.IsPast(time.Now().UTC()) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "You can only delete meetups that have not yet happened",
			"requestID": requestID,
		})
		return
	}

	// Subscriptions to the meetup go with it
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meetup_id = ?", meetup.ID).Delete(model.Subscription{}).Error; err != nil {
			return err
		}

		return tx.Delete(&meetup).Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete meetup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, meetup)
}
