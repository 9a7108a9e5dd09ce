package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"roadsense/api/internal/ids"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
)

var ErrNotPendingOfficial = errors.New("user is not a pending official")

type AdminService struct {
	users         *repository.UserRepository
	reports       *repository.ReportRepository
	notifications *repository.NotificationRepository
	log           zerolog.Logger
}

func NewAdminService(
	users *repository.UserRepository,
	reports *repository.ReportRepository,
	notifications *repository.NotificationRepository,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:         users,
		reports:       reports,
		notifications: notifications,
		log:           log,
	}
}

type PlatformStats struct {
	Users   map[models.UserRole]int     `json:"users"`
	Reports map[models.ReportStatus]int `json:"reports"`
}

func (s *AdminService) Stats(ctx context.Context) (PlatformStats, error) {
	userCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return PlatformStats{}, err
	}

	reportCounts, err := s.reports.CountByStatus(ctx, "", "")
	if err != nil {
		return PlatformStats{}, err
	}

	return PlatformStats{
		Users:   userCounts,
		Reports: reportCounts,
	}, nil
}

// VerifyOfficial resolves a pending official registration. Approval activates
// the account; rejection blocks it. Either way the official is notified.
func (s *AdminService) VerifyOfficial(ctx context.Context, adminID string, userID string, approve bool) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Role != models.UserRoleOfficial || user.AccountStatus != models.AccountStatusPending {
		return models.User{}, ErrNotPendingOfficial
	}

	status := models.AccountStatusActive
	title := "Account verified"
	body := "Your official account has been verified. You now have full access."
	if !approve {
		status = models.AccountStatusBlocked
		title = "Account verification rejected"
		body = "Your official registration could not be verified."
	}

	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		return models.User{}, err
	}
	if approve {
		if err := s.users.MarkOfficialVerified(ctx, userID, adminID); err != nil {
			return models.User{}, err
		}
	}

	notification := models.Notification{
		ID:     ids.New(),
		UserID: userID,
		Kind:   models.NotificationKindVerification,
		Title:  title,
		Body:   body,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("verification notification failed")
	}

	s.log.Info().Str("user_id", userID).Str("status", string(status)).Msg("official verification resolved")
	return s.users.GetByID(ctx, userID)
}

// SetUserStatus is the admin moderation hook for suspending, blocking and
// reinstating accounts.
func (s *AdminService) SetUserStatus(ctx context.Context, userID string, status models.AccountStatus) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Role == models.UserRoleAdmin {
		return models.User{}, fmt.Errorf("cannot change status of an admin account")
	}

	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, userID)
}
