package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
	"roadsense/api/internal/service"
	"roadsense/api/internal/validation"
)

type userResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	PhoneNumber   *string   `json:"phone_number,omitempty"`
	Role          string    `json:"role"`
	AccountStatus string    `json:"account_status"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:            user.ID,
		FullName:      user.FullName,
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
		Role:          string(user.Role),
		AccountStatus: string(user.AccountStatus),
		AvatarURL:     user.AvatarURL,
		CreatedAt:     user.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken   string       `json:"access_token"`
	TokenType     string       `json:"token_type"`
	Role          string       `json:"role"`
	AccountStatus string       `json:"account_status"`
	User          userResponse `json:"user"`
}

func sendTokenResponse(c *gin.Context, result service.AuthResult) {
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:   result.AccessToken,
		TokenType:     "bearer",
		Role:          string(result.User.Role),
		AccountStatus: string(result.User.AccountStatus),
		User:          toUserResponse(result.User),
	})
}

type citizenRegisterRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Consent         bool   `json:"consent"`
}

func (h HandlerSet) RegisterCitizen(c *gin.Context) {
	var req citizenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := validation.CitizenRegistration{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Consent:         req.Consent,
	}
	if errs := form.Validate(); !errs.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	result, err := h.authService.RegisterCitizen(c.Request.Context(), service.CitizenRegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
			return
		}
		h.log.Error().Err(err).Msg("citizen registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration_failed"})
		return
	}

	sendTokenResponse(c, result)
}

// RegisterOfficial accepts the multipart official signup: profile fields plus
// a government ID image. The account is created pending verification.
func (h HandlerSet) RegisterOfficial(c *gin.Context) {
	file, header, fileErr := c.Request.FormFile("government_id")
	if fileErr == nil {
		defer file.Close()
	}

	form := validation.OfficialRegistration{
		FullName:        c.PostForm("full_name"),
		Email:           c.PostForm("email"),
		PhoneNumber:     c.PostForm("phone_number"),
		EmployeeID:      c.PostForm("employee_id"),
		Department:      c.PostForm("department"),
		Designation:     c.PostForm("designation"),
		Zone:            c.PostForm("zone"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
		Consent:         c.PostForm("consent") == "true",
		HasGovernmentID: fileErr == nil,
	}
	errs := form.Validate()
	if fileErr == nil {
		declared := header.Header.Get("Content-Type")
		for field, msg := range validation.CheckUpload("idUpload", declared, header.Size, validation.MaxIDUploadBytes) {
			errs[field] = msg
		}
	}
	if !errs.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	user, err := h.authService.RegisterOfficial(c.Request.Context(), service.OfficialRegisterInput{
		FullName:     form.FullName,
		Email:        form.Email,
		PhoneNumber:  form.PhoneNumber,
		EmployeeID:   form.EmployeeID,
		Department:   form.Department,
		Designation:  form.Designation,
		Zone:         form.Zone,
		Password:     form.Password,
		GovernmentID: file,
		IDHeader:     header,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email_taken"})
			return
		}
		h.log.Error().Err(err).Msg("official registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration_failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    toUserResponse(user),
		"message": "Registration received. Your account will be activated after verification.",
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.sendLoginError(c, err)
		return
	}

	sendTokenResponse(c, result)
}

// AdminLogin is the separate admin entry point; it refuses non-admin accounts
// rather than leaking whether the credentials were otherwise valid.
func (h HandlerSet) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.sendLoginError(c, err)
		return
	}
	if result.User.Role != models.UserRoleAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	sendTokenResponse(c, result)
}

func (h HandlerSet) sendLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, service.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "account_disabled"})
	default:
		h.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed"})
	}
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
