package api

import (
	"net/http"
	"time"

	"meetgo/meetup-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MeetupIndex lists meetups ordered by date. An optional ?date=2006-01-02
// query restricts the listing to that calendar day.
func (a *API) MeetupIndex(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page := parsePage(c.DefaultQuery("page", "1"))

	q := a.DB.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar_id")
		}).
		Preload("User.Avatar").
		Preload("Banner").
		Order("date asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize)

	if raw := c.Query("date"); raw != "" {
		day, err := parseDay(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid date filter",
				"requestID": requestID,
			})
			return
		}

		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

		q = q.Where("date BETWEEN ? AND ?", dayStart, dayEnd)
	}

	var meetups []model.Meetup

	if err := q.Find(&meetups).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch meetups", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	now := time.Now().UTC()
	for i := range meetups {
		meetups[i].Past = meetups[i].IsPast(now)
	}

	c.JSON(http.StatusOK, meetups)
}

// parseDay accepts a plain date or a full RFC 3339 timestamp and keeps
// only the calendar day
func parseDay(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, raw)
}
