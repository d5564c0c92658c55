package repository

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strconv"
)

// jsonArrayFile persists one entity type as a single JSON array. Every mutation rewrites the whole file.
type jsonArrayFile[T any] struct {
	path string
}

func (f jsonArrayFile[T]) read() ([]T, error) {
	items := make([]T, 0)
	data, err := os.ReadFile(f.path)
	if err != nil {
		// not created yet
		if errors.Is(err, fs.ErrNotExist) {
			return items, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f jsonArrayFile[T]) write(items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

// nextID continues the auto-increment sequence from the id of the last stored record.
func nextID(lastID string, count int) string {
	if count == 0 {
		return "1"
	}
	last, err := strconv.Atoi(lastID)
	if err != nil {
		return strconv.Itoa(count + 1)
	}
	return strconv.Itoa(last + 1)
}
