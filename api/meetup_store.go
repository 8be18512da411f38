package api

import (
	"errors"
	"net/http"
	"time"

	"meetgo/meetup-api/model"
	"meetgo/meetup-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type meetupStoreBody struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	BannerID    uint      `json:"banner_id"`
}

var errSlotTaken = errors.New("slot taken")

// MeetupStore creates a meetup organized by the caller. The availability
// check runs inside a transaction and the (user_id, date) unique index
// backs it, so two concurrent requests can't both claim the same slot.
func (a *API) MeetupStore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data meetupStoreBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.MeetupValidator(data.Title, data.Description, data.Location, data.Date, data.BannerID); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	date := data.Date.UTC()

	if !date.After(time.Now().UTC()) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Past dates are not permitted",
			"requestID": requestID,
		})
		return
	}

	var bannerCount int64
	if err := a.DB.Model(model.File{}).Where("id = ?", data.BannerID).Count(&bannerCount).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check banner file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if bannerCount == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Banner file does not exist",
			"requestID": requestID,
		})
		return
	}

	meetup := model.Meetup{
		Title:       data.Title,
		Description: data.Description,
		Location:    data.Location,
		Date:        date,
		BannerID:    data.BannerID,
		UserID:      userID,
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model.Meetup{}).
			Where("user_id = ? AND date = ?", userID, date).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return errSlotTaken
		}

		return tx.Create(&meetup).Error
	})
	if err != nil {
		if errors.Is(err, errSlotTaken) || errors.Is(err, gorm.ErrDuplicatedKey) {
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

		zap.L().Error("Failed to create meetup", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, meetup)
}
