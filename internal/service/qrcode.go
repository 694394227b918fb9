package service

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// CreateBadge encodes the employee id as a qr code png and returns its path.
// The badge content is what kiosks scan to prefill the check-in form.
func CreateBadge(employeeID string) (string, error) {
	targetPath := filepath.Join(baseDir, "badges")
	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		if err = os.MkdirAll(targetPath, os.ModePerm); err != nil {
			return "", err
		}
	}

	path := filepath.Join(targetPath, fmt.Sprintf("%s.png", employeeID))
	if err := qrcode.WriteFile(employeeID, qrcode.Medium, 256, path); err != nil {
		return "", fmt.Errorf("error writing badge: %w", err)
	}

	return path, nil
}
