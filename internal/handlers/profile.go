package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
	"roadsense/api/internal/service"
	"roadsense/api/internal/validation"
)

func (h HandlerSet) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp := gin.H{"user": toUserResponse(user)}
	if user.Role == models.UserRoleOfficial {
		if profile, err := h.users.GetOfficialProfile(c.Request.Context(), user.ID); err == nil {
			resp["official_profile"] = toOfficialProfileResponse(profile)
		}
	}

	c.JSON(http.StatusOK, resp)
}

type profileUpdateRequest struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := validation.ProfileUpdate{FullName: req.FullName, PhoneNumber: req.PhoneNumber}
	if errs := form.Validate(); !errs.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	updated, err := h.authService.UpdateProfile(c.Request.Context(), user.ID, req.FullName, req.PhoneNumber)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("profile update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_update_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(updated)})
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req passwordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := validation.PasswordChange{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	}
	if errs := form.Validate(); !errs.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validation.Errors{
				"currentPassword": "Current password is incorrect",
			}})
			return
		}
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("password change failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password_change_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"changed": true})
}

func (h HandlerSet) UploadProfileImage(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	declared := header.Header.Get("Content-Type")
	if errs := validation.CheckUpload("image", declared, header.Size, validation.MaxIDUploadBytes); !errs.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	url, err := h.authService.UploadAvatar(c.Request.Context(), user.ID, file, header)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("avatar upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
