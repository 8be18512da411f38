package api

import (
	"errors"
	"net/http"
	"time"

	"meetgo/meetup-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type meetupUpdateBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Date        *time.Time `json:"date"`
	BannerID    *uint      `json:"banner_id"`
}

// MeetupUpdate partially updates a meetup. Only the organizer may edit it
// and only while the meetup hasn't happened yet.
func (a *API) MeetupUpdate(c *gin.Context) {
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

	var data meetupUpdateBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
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
			"error":     "You don't have permission to edit this meetup",
			"requestID": requestID,
		})
		return
	}

	now := time.Now().UTC()

	if meetup.IsPast(now) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "You can only edit meetups that have not yet happened",
			"requestID": requestID,
		})
		return
	}

	updates := map[string]any{}

	if data.Title != nil {
		if *data.Title == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Title can't be empty",
				"requestID": requestID,
			})
			return
		}
		updates["title"] = *data.Title
	}

	if data.Description != nil {
		if *data.Description == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Description can't be empty",
				"requestID": requestID,
			})
			return
		}
		updates["description"] = *data.Description
	}

	if data.Location != nil {
		if *data.Location == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Location can't be empty",
				"requestID": requestID,
			})
			return
		}
		updates["location"] = *data.Location
	}

	if data.Date != nil {
		date := data.Date.UTC()

		if !date.After(now) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Past dates are not permitted",
				"requestID": requestID,
			})
			return
		}

		updates["date"] = date
	}

	if data.BannerID != nil {
		var count int64
		if err := a.DB.Model(model.File{}).Where("id = ?", *data.BannerID).Count(&count).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check banner file", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if count == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Banner file does not exist",
				"requestID": requestID,
			})
			return
		}

		updates["banner_id"] = *data.BannerID
	}

	if len(updates) > 0 {
		if err := a.DB.Model(&meetup).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":     "You already have a meetup scheduled at this date",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update meetup", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	meetup.Past = meetup.IsPast(time.Now().UTC())

	c.JSON(http.StatusOK, meetup)
}
