package api

import (
	"errors"
	"net/http"

	"meetgo/meetup-api/model"
	"meetgo/meetup-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userUpdateBody struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	OldPassword string  `json:"oldPassword"`
	Password    string  `json:"password"`
	AvatarID    *uint   `json:"avatar_id"`
}

// UserUpdate partially updates the caller's profile. A password change
// requires the current password to be supplied and verified first.
func (a *API) UserUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data userUpdateBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var user model.User
	if err := a.DB.First(&user, userID).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	updates := map[string]any{}

	if data.Name != nil {
		if *data.Name == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Name field can't be empty",
				"requestID": requestID,
			})
			return
		}
		updates["name"] = *data.Name
	}

	if data.Email != nil {
		if err := validators.EmailValidator(*data.Email); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}
		updates["email"] = *data.Email
	}

	if data.Password != "" {
		if err := validators.PasswordValidator(data.Password); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		ok, err := a.Argon.VerifyPasswd(data.OldPassword, user.PasswordHash)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Password does not match",
				"requestID": requestID,
			})
			return
		}

		hash, err := a.Argon.GenerateFromPassword(data.Password)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		updates["password_hash"] = hash
	}

	if data.AvatarID != nil {
		var count int64
		if err := a.DB.Model(model.File{}).Where("id = ?", *data.AvatarID).Count(&count).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check avatar file", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if count == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Avatar file does not exist",
				"requestID": requestID,
			})
			return
		}

		updates["avatar_id"] = *data.AvatarID
	}

	if len(updates) > 0 {
		if err := a.DB.Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error":     "This email is already registered",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}
