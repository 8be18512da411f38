package api

import (
	"errors"
	"net/http"
	"path"

	"meetgo/meetup-api/model"
	"meetgo/meetup-api/validators"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const fileKeyCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// FileUpload stores a banner/avatar image in the configured backend and
// records its metadata
func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     validators.ErrNoFile.Error(),
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.FileValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to detect file type", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	f.Seek(0, 0)

	id, err := gonanoid.Generate(fileKeyCharset, 16)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate file key", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	key := id + path.Ext(fh.Filename)

	url, err := a.Storage.Save(c.Request.Context(), key, f, fh.Size, mime.String())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file := model.File{
		Name: fh.Filename,
		Path: key,
		URL:  url,
	}

	if err := a.DB.Create(&file).Error; err != nil {
		// Don't leave orphaned objects behind when the row can't be written
		if derr := a.Storage.Delete(c.Request.Context(), key); derr != nil {
			zap.L().Error("Failed to clean up stored object", zap.Error(derr), zap.String("requestID", requestID))
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create file record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, file)
}
