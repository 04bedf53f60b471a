package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Kategorie blobów trzymane przez serwer. Obrazy twarzy i zrzuty z detekcji
// żyją w osobnych poddrzewach, tak jak uploads/faces i uploads/detections
// w pierwotnym wdrożeniu.
const (
	CategoryFaces      = "faces"
	CategoryDetections = "detections"
)

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	for _, category := range []string{CategoryFaces, CategoryDetections} {
		if err := os.MkdirAll(filepath.Join(basePath, category), os.ModePerm); err != nil {
			return nil, err
		}
	}
	return &LocalStorage{basePath: basePath}, nil
}

// getPathFromID rozrzuca bloby po dwupoziomowych podkatalogach z prefiksu
// identyfikatora, żeby jeden katalog nie puchł od tysięcy plików.
func (ls *LocalStorage) getPathFromID(category, id string) string {
	if len(id) < 2 {
		return filepath.Join(ls.basePath, category, id)
	}
	return filepath.Join(ls.basePath, category, id[:1], id[1:2], id)
}

func (ls *LocalStorage) Save(category, id string, data io.Reader) error {
	filePath := ls.getPathFromID(category, id)
	dir := filepath.Dir(filePath)

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (ls *LocalStorage) Get(category, id string) (io.ReadCloser, error) {
	filePath := ls.getPathFromID(category, id)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s/%s not found: %w", category, id, err)
		}
		return nil, err
	}

	return file, nil
}

func (ls *LocalStorage) Delete(category, id string) error {
	filePath := ls.getPathFromID(category, id)

	err := os.Remove(filePath)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
