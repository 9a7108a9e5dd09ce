package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadsense/api/internal/media/sniffer"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/storage"
)

// A report with a bad image must fail before anything is written: the nil
// pool here would blow up the test if Create touched the database first.
func TestCreateRejectsBadImageBeforePersisting(t *testing.T) {
	cfg := uploadTestConfig()
	cfg.Security.SignatureSecret = "test-secret"

	uploads := NewUploadService(&storage.ObjectStore{}, cfg, zerolog.Nop())
	svc := NewReportService(
		repository.NewReportRepository(nil),
		repository.NewNotificationRepository(nil),
		uploads,
		nil,
		cfg,
		zerolog.Nop(),
	)

	file, header := uploadFixture([]byte("%PDF-1.7 not an image"), "image/png")
	input := CreateReportInput{
		User:        models.User{ID: "citizen-1", Role: models.UserRoleCitizen},
		Title:       "Large pothole near the bus stop",
		Description: "A deep pothole has opened up right before the pedestrian crossing.",
		IssueType:   models.IssueTypePothole,
		Latitude:    12.9716,
		Longitude:   77.5946,
		Images:      []ReportImageUpload{{File: file, Header: header}},
	}

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, sniffer.ErrUnsupportedType)
}
