package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/domain/port"
)

// DiskPhotoStore хранит фотографии сотрудников в каталоге на диске.
type DiskPhotoStore struct {
	dir string
}

// NewDiskPhotoStore создаёт каталог, если его нет.
func NewDiskPhotoStore(dir string) (*DiskPhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photo dir: %w", err)
	}
	return &DiskPhotoStore{dir: dir}, nil
}

// Save пишет фото под уникальным именем и возвращает имя файла.
func (s *DiskPhotoStore) Save(prefix string, data []byte) (string, error) {
	filename := fmt.Sprintf("%s_%s.jpg", prefix, uuid.NewString())
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return filename, nil
}

// Path возвращает путь к файлу. Имена с каталогами отвергаются.
func (s *DiskPhotoStore) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", entity.ErrNotFound
	}
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", entity.ErrNotFound
	}
	return path, nil
}

// Remove удаляет фото. Отсутствующий файл не ошибка.
func (s *DiskPhotoStore) Remove(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return entity.ErrNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

var _ port.PhotoStore = (*DiskPhotoStore)(nil)
