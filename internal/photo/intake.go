package photo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ScanDirectory builds intake records for every image file directly under
// dir. Capture time comes from the file's modification time, which action
// cameras preserve on copy; it is recorded in the camera's local clock, so
// downstream correlation applies the UTC offset.
func ScanDirectory(dir string) ([]*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}

		records = append(records, &Record{
			OriginalFilename: entry.Name(),
			CapturedAt:       info.ModTime().Format(captureLayouts[0]),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no image files found in %s", dir)
	}
	return records, nil
}
