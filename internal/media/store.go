// Package media owns the on-disk layout: uploaded source clips, fixed
// announcement clips, and generated output tracks.
package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/listenbank/listenbank-backend/internal/pkg/logger"
)

// EndingClipName is the fixed clip appended after the last question.
const EndingClipName = "ending.mp3"

var allowedExtensions = map[string]bool{
	".mp3": true,
}

var unsafeRunes = regexp.MustCompile(`[^A-Za-z0-9_.\x{4e00}-\x{9fff}-]+`)

type Store struct {
	log         *logger.Logger
	uploadDir   string
	generatedDir string
	announceDir string
}

func NewStore(uploadDir, generatedDir, announceDir string, baseLog *logger.Logger) *Store {
	return &Store{
		log:          baseLog.With("service", "MediaStore"),
		uploadDir:    uploadDir,
		generatedDir: generatedDir,
		announceDir:  announceDir,
	}
}

// EnsureDirs creates the media areas if they do not exist yet.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.uploadDir, s.generatedDir, s.announceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create media directory %s: %w", dir, err)
		}
	}
	return nil
}

// AllowedExtension reports whether the filename carries an approved
// audio extension.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SanitizeFilename reduces an client-supplied filename to a safe base
// name: path components are dropped and runes outside a conservative
// set are collapsed to underscores.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeRunes.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}

// SaveUpload streams an uploaded clip under the given storage name and
// returns the absolute path written.
func (s *Store) SaveUpload(storageName string, r io.Reader) (string, error) {
	path := filepath.Join(s.uploadDir, filepath.Base(storageName))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// RemoveUpload deletes a stored source clip. Best-effort cleanup for a
// failed catalog insert.
func (s *Store) RemoveUpload(storageName string) {
	if err := os.Remove(filepath.Join(s.uploadDir, filepath.Base(storageName))); err != nil {
		s.log.Warn("Failed to remove uploaded clip", "file", storageName, "error", err)
	}
}

// UploadPath resolves a stored source clip by name.
func (s *Store) UploadPath(name string) string {
	return filepath.Join(s.uploadDir, filepath.Base(name))
}

// GeneratedPath resolves a generated output track by name.
func (s *Store) GeneratedPath(name string) string {
	return filepath.Join(s.generatedDir, filepath.Base(name))
}

// AnnouncementName returns the clip name announcing the given 1-based
// position, e.g. position 1 -> "01.mp3".
func AnnouncementName(position int) string {
	return fmt.Sprintf("%02d.mp3", position)
}

// AnnouncementPath resolves the announcement clip for a 1-based position.
func (s *Store) AnnouncementPath(position int) string {
	return filepath.Join(s.announceDir, AnnouncementName(position))
}

// EndingPath resolves the fixed ending clip.
func (s *Store) EndingPath() string {
	return filepath.Join(s.announceDir, EndingClipName)
}

// Exists reports whether path points at a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
