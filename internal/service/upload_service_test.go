package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadsense/api/internal/config"
	"roadsense/api/internal/media/sniffer"
	"roadsense/api/internal/storage"
)

// memFile adapts a byte slice to multipart.File.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func uploadFixture(data []byte, declaredMIME string) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: "upload.bin",
		Header:   textproto.MIMEHeader{},
		Size:     int64(len(data)),
	}
	if declaredMIME != "" {
		header.Header.Set("Content-Type", declaredMIME)
	}
	return memFile{bytes.NewReader(data)}, header
}

func uploadTestConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.Storage.BucketReports = "reports"
	cfg.Storage.BucketDocuments = "documents"
	cfg.Storage.BucketAvatars = "avatars"
	cfg.Reports.MaxImages = 5
	cfg.Reports.MaxImageSize = 10 * 1024 * 1024
	cfg.Reports.MaxDocumentSize = 5 * 1024 * 1024
	return cfg
}

// The object store is never reached on a rejected upload, so a zero store is
// enough for these paths.
func newUploadFixtureService() *UploadService {
	return NewUploadService(&storage.ObjectStore{}, uploadTestConfig(), zerolog.Nop())
}

func jpegBytes() []byte {
	return append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0x01}, 64)...)
}

func TestStoreReportImageRejectsSpoofedContent(t *testing.T) {
	uploads := newUploadFixtureService()

	// PDF bytes behind a declared image type must fail at the sniff.
	file, header := uploadFixture([]byte("%PDF-1.7 not an image"), "image/png")

	_, err := uploads.StoreReportImage(context.Background(), file, header)
	require.Error(t, err)
	assert.ErrorIs(t, err, sniffer.ErrUnsupportedType)
}

func TestStoreReportImageRejectsDeclaredMismatch(t *testing.T) {
	uploads := newUploadFixtureService()

	// Real JPEG content declared as PNG: both types are allowed, but they
	// must agree with each other.
	file, header := uploadFixture(jpegBytes(), "image/png")

	_, err := uploads.StoreReportImage(context.Background(), file, header)
	require.Error(t, err)
	assert.ErrorIs(t, err, sniffer.ErrUnsupportedType)
}

func TestStoreReportImageRejectsEmptyFile(t *testing.T) {
	uploads := newUploadFixtureService()

	file, header := uploadFixture(nil, "image/png")

	_, err := uploads.StoreReportImage(context.Background(), file, header)
	assert.Error(t, err)
}

func TestStoreReportImageRejectsOversize(t *testing.T) {
	uploads := newUploadFixtureService()

	file, header := uploadFixture(jpegBytes(), "image/jpeg")
	header.Size = uploads.cfg.Reports.MaxImageSize + 1

	_, err := uploads.StoreReportImage(context.Background(), file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
