package service

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const baseDir = "statics"

// SaveSnapshot decodes a base64 image and writes it under
// statics/<folder>/<uuid>.jpg, returning the stored path. Records keep the
// path, never the image itself.
func SaveSnapshot(imageBase64, folder string) (string, error) {
	if imageBase64 == "" {
		return "", errors.New("empty image")
	}

	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", errors.Wrap(err, "decoding image")
	}

	targetPath := filepath.Join(baseDir, folder)
	if _, err := os.Stat(targetPath); errors.Is(err, os.ErrNotExist) {
		if err = os.MkdirAll(targetPath, os.ModePerm); err != nil {
			return "", errors.Wrap(err, "creating snapshot dir")
		}
	}

	path := filepath.Join(targetPath, uuid.NewString()+".jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing snapshot")
	}

	return path, nil
}
