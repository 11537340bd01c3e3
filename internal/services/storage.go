package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerlens/resume-assistant/internal/apperr"
	"careerlens/resume-assistant/internal/models"
)

const pdfMimeType = "application/pdf"

type StorageService interface {
	SaveUpload(file *multipart.FileHeader) (*models.UploadedFile, error)
	DeleteFile(path string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveUpload validates the declared MIME type and size, then persists the
// file under a collision-resistant name. Validation happens before any byte
// is written to disk.
func (s *storageService) SaveUpload(file *multipart.FileHeader) (*models.UploadedFile, error) {
	mimeType := file.Header.Get("Content-Type")
	if mimeType != pdfMimeType {
		return nil, apperr.Validation("Only PDF files are allowed")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, apperr.Validation("Only PDF files are allowed")
	}

	if file.Size > s.maxFileSize {
		return nil, apperr.Validation(fmt.Sprintf("File too large. Max size: %d bytes", s.maxFileSize))
	}

	// Upload dir is created lazily so a fresh deployment works without a
	// provisioning step.
	if err := s.EnsureUploadDir(); err != nil {
		return nil, err
	}

	originalName := filepath.Base(file.Filename)
	uniqueFilename := fmt.Sprintf("%s_%d_%s", uuid.New().String(), time.Now().UnixMilli(), originalName)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &models.UploadedFile{
		StoragePath:  filePath,
		OriginalName: originalName,
		MimeType:     mimeType,
		SizeBytes:    file.Size,
	}, nil
}

func (s *storageService) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Cleanup removes the uploaded file and logs instead of escalating: a failed
// delete must never mask the primary response already being sent.
func Cleanup(storage StorageService, file *models.UploadedFile) {
	if file == nil {
		return
	}
	if err := storage.DeleteFile(file.StoragePath); err != nil {
		log.Printf("⚠️  Failed to clean up upload %s: %v\n", file.StoragePath, err)
	}
}
