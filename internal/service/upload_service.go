package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"roadsense/api/internal/config"
	"roadsense/api/internal/ids"
	"roadsense/api/internal/media/sniffer"
	"roadsense/api/internal/storage"
	"roadsense/api/internal/validation"
)

var (
	ErrEmptyFile    = errors.New("empty file")
	ErrFileTooLarge = errors.New("file too large")
)

// UploadService owns every object-store write: report images, government ID
// documents and profile avatars. Callers never touch minio directly.
type UploadService struct {
	store *storage.ObjectStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewUploadService(store *storage.ObjectStore, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

type StoredObject struct {
	Bucket    string
	ObjectKey string
	Format    string
	MIME      string
	SizeBytes int64
}

// StoreReportImage sniffs, bounds-checks and persists a single report image.
func (s *UploadService) StoreReportImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (StoredObject, error) {
	return s.storeObject(ctx, file, header, s.cfg.Storage.BucketReports, "reports", s.cfg.Reports.MaxImageSize)
}

// StoreDocument persists a government ID image under the given key prefix and
// returns the object key. Documents stay private; no public URL is built.
func (s *UploadService) StoreDocument(ctx context.Context, file multipart.File, header *multipart.FileHeader, prefix string) (string, error) {
	obj, err := s.storeObject(ctx, file, header, s.cfg.Storage.BucketDocuments, prefix, validation.MaxIDUploadBytes)
	if err != nil {
		return "", err
	}
	return obj.ObjectKey, nil
}

// StoreAvatar persists a profile image and returns its public URL.
func (s *UploadService) StoreAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader, userID string) (string, error) {
	obj, err := s.storeObject(ctx, file, header, s.cfg.Storage.BucketAvatars, path.Join("avatars", userID), validation.MaxIDUploadBytes)
	if err != nil {
		return "", err
	}
	return s.store.PublicURL(obj.Bucket, obj.ObjectKey), nil
}

func (s *UploadService) storeObject(ctx context.Context, file multipart.File, header *multipart.FileHeader, bucket string, prefix string, maxBytes int64) (StoredObject, error) {
	if file == nil || header == nil {
		return StoredObject{}, errors.New("invalid file payload")
	}
	if header.Size > maxBytes {
		return StoredObject{}, ErrFileTooLarge
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return StoredObject{}, fmt.Errorf("read head: %w", err)
	}
	head = head[:n]

	var data []byte
	if seeker, ok := file.(io.ReadSeeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return StoredObject{}, fmt.Errorf("rewind: %w", err)
		}
		data, err = io.ReadAll(seeker)
		if err != nil {
			return StoredObject{}, fmt.Errorf("read file: %w", err)
		}
	} else {
		rest, err := io.ReadAll(file)
		if err != nil {
			return StoredObject{}, fmt.Errorf("read file: %w", err)
		}
		data = append(head, rest...)
	}

	if len(data) == 0 {
		return StoredObject{}, ErrEmptyFile
	}
	if int64(len(data)) > maxBytes {
		return StoredObject{}, ErrFileTooLarge
	}

	result, err := sniffer.DetectHead(head)
	if err != nil {
		return StoredObject{}, fmt.Errorf("detect type: %w", err)
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(header.Header))
	if declared != "" && !sniffer.AllowedDeclaredMIME(declared) {
		return StoredObject{}, fmt.Errorf("content type %s not allowed: %w", declared, sniffer.ErrUnsupportedType)
	}
	if declared != "" && !sniffer.DeclaredMatches(declared, result.MIME) {
		return StoredObject{}, fmt.Errorf("declared %s but content is %s: %w", declared, result.MIME, sniffer.ErrUnsupportedType)
	}

	objectKey := buildObjectKey(prefix, string(result.Type))

	reader := bytes.NewReader(data)
	info, err := s.store.Client().PutObject(ctx, bucket, objectKey, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: result.MIME,
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("put object: %w", err)
	}

	return StoredObject{
		Bucket:    bucket,
		ObjectKey: objectKey,
		Format:    string(result.Type),
		MIME:      result.MIME,
		SizeBytes: info.Size,
	}, nil
}

func buildObjectKey(prefix string, ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(prefix, datePrefix, fmt.Sprintf("%s.%s", ids.New(), ext))
}

func (s *UploadService) PublicURL(bucket, objectKey string) string {
	return s.store.PublicURL(bucket, objectKey)
}
