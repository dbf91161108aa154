package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidPhotoType = errors.New("invalid file type")
	ErrEmptyFilename    = errors.New("no file selected")
)

// allowedPhotoExts is the profile photo extension allow-list.
var allowedPhotoExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true,
}

// PhotoService stores profile photos on local disk under generated filenames
// and hands back the public /uploads/ path.
type PhotoService struct {
	uploadDir string
}

func NewPhotoService(uploadDir string) *PhotoService {
	os.MkdirAll(uploadDir, 0755)
	return &PhotoService{uploadDir: uploadDir}
}

// AllowedPhotoFilename reports whether the filename carries an allow-listed
// extension, and returns that extension lowercased.
func AllowedPhotoFilename(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", false
	}
	return ext, allowedPhotoExts[ext]
}

// Save writes the photo as "<userID>_<8-hex>.<ext>" and returns its URL path.
func (s *PhotoService) Save(userID string, filename string, file io.Reader) (string, error) {
	if filename == "" {
		return "", ErrEmptyFilename
	}
	ext, ok := AllowedPhotoFilename(filename)
	if !ok {
		return "", ErrInvalidPhotoType
	}

	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	newFilename := fmt.Sprintf("%s_%s.%s", userID, frag, ext)
	// The generated name is the only part of the path the caller influenced
	// through userID; strip any separators to keep writes inside uploadDir.
	newFilename = filepath.Base(newFilename)
	filePath := filepath.Join(s.uploadDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/uploads/" + newFilename, nil
}

// UploadDir is the directory photos are written to, for static serving.
func (s *PhotoService) UploadDir() string {
	return s.uploadDir
}
