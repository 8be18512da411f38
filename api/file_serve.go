package api

import (
	"net/http"
	"path/filepath"

	"meetgo/meetup-api/model"
	"meetgo/meetup-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileServe serves a stored file directly when the backend is local disk,
// otherwise redirects to the object's public URL
func (a *API) FileServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	key := c.Param("key")
	if key == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file key provided",
			"requestID": requestID,
		})
		return
	}

	var file model.File

	if err := a.DB.Where("path = ?", key).First(&file).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if local, ok := a.Storage.(*storage.LocalStorage); ok {
		c.File(filepath.Join(local.Dir, file.Path))
		return
	}

	c.Redirect(http.StatusFound, file.URL)
}
