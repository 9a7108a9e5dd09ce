package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"roadsense/api/internal/config"
	"roadsense/api/internal/ids"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService struct {
	users   *repository.UserRepository
	uploads *UploadService
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewAuthService(users *repository.UserRepository, uploads *UploadService, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:   users,
		uploads: uploads,
		cfg:     cfg,
		log:     log,
	}
}

type AuthResult struct {
	AccessToken string
	User        models.User
}

type CitizenRegisterInput struct {
	FullName string
	Email    string
	Password string
}

func (s *AuthService) RegisterCitizen(ctx context.Context, input CitizenRegisterInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:            ids.New(),
		FullName:      strings.TrimSpace(input.FullName),
		Email:         email,
		PasswordHash:  passwordHash,
		Role:          models.UserRoleCitizen,
		AccountStatus: models.AccountStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	return s.issueToken(user)
}

type OfficialRegisterInput struct {
	FullName     string
	Email        string
	PhoneNumber  string
	EmployeeID   string
	Department   string
	Designation  string
	Zone         string
	Password     string
	GovernmentID multipart.File
	IDHeader     *multipart.FileHeader
}

// RegisterOfficial creates a pending official account. The government ID image
// lands in the documents bucket and the account stays pending until an admin
// verifies it.
func (s *AuthService) RegisterOfficial(ctx context.Context, input OfficialRegisterInput) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	idKey, err := s.uploads.StoreDocument(ctx, input.GovernmentID, input.IDHeader, path.Join("gov-ids", input.EmployeeID))
	if err != nil {
		return models.User{}, fmt.Errorf("store government id: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	phone := strings.NewReplacer(" ", "", "-", "").Replace(input.PhoneNumber)
	user := models.User{
		ID:            ids.New(),
		FullName:      strings.TrimSpace(input.FullName),
		Email:         email,
		PhoneNumber:   &phone,
		PasswordHash:  passwordHash,
		Role:          models.UserRoleOfficial,
		AccountStatus: models.AccountStatusPending,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	profile := models.OfficialProfile{
		UserID:          user.ID,
		EmployeeID:      strings.TrimSpace(input.EmployeeID),
		Department:      input.Department,
		Designation:     strings.TrimSpace(input.Designation),
		Zone:            input.Zone,
		GovernmentIDKey: idKey,
	}
	if err := s.users.CreateOfficialProfile(ctx, profile); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("zone", profile.Zone).Msg("official registered, awaiting verification")
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	switch user.AccountStatus {
	case models.AccountStatusSuspended, models.AccountStatusBlocked:
		return AuthResult{}, ErrAccountDisabled
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user models.User) (AuthResult, error) {
	token, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		string(user.Role),
		string(user.AccountStatus),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, current string, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, fullName string, phoneNumber string) (models.User, error) {
	var phone *string
	if phoneNumber != "" {
		normalized := strings.NewReplacer(" ", "", "-", "").Replace(phoneNumber)
		phone = &normalized
	}

	if err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(fullName), phone); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, userID)
}

// UploadAvatar stores a profile image and records its public URL.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	url, err := s.uploads.StoreAvatar(ctx, file, header, userID)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
