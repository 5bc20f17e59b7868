package media

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// каталоги внутри медиахранилища
const (
	DirApplications = "applications"
	DirDesigns      = "designs"
)

var ErrBadPath = errors.New("media: path escapes storage root")

// Store хранит загруженные изображения. Пути в БД относительны корню хранилища.
type Store struct {
	fs afero.Fs
}

func NewOsStore(root string) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root %s: %w", root, err)
	}
	return &Store{fs: afero.NewBasePathFs(osFs, root)}, nil
}

func NewMemStore() *Store {
	return &Store{fs: afero.NewMemMapFs()}
}

// Save записывает файл под уникальным именем и возвращает относительный путь.
func (s *Store) Save(dir, ext string, data []byte) (string, error) {
	if err := s.fs.MkdirAll("/"+dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir %s: %w", dir, err)
	}
	name := path.Join(dir, uuid.NewString()+ext)
	if err := afero.WriteFile(s.fs, "/"+name, data, 0o644); err != nil {
		return "", fmt.Errorf("write media %s: %w", name, err)
	}
	return name, nil
}

// Remove удаляет файл; отсутствие файла ошибкой не считается.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	clean, err := cleanPath(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove media %s: %w", clean, err)
	}
	return nil
}

func (s *Store) Exists(name string) bool {
	clean, err := cleanPath(name)
	if err != nil {
		return false
	}
	ok, _ := afero.Exists(s.fs, clean)
	return ok
}

func (s *Store) Read(name string) ([]byte, error) {
	clean, err := cleanPath(name)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(s.fs, clean)
}

// HTTP отдаёт хранилище для раздачи по /media/. Внутри fs пути абсолютные,
// как их и запрашивает http.FileServer.
func (s *Store) HTTP() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}

func cleanPath(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "..") {
		return "", ErrBadPath
	}
	return clean, nil
}
