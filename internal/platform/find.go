package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxNameDifference bounds how much a truncated name may differ
const MaxNameDifference = 10

// SkippedExtensions are partial or bookkeeping files left by yt-dlp
var SkippedExtensions = []string{".part", ".ytdl", ".temp"}

// FindFileWithFallback returns filePath when it exists. Otherwise it looks in
// the same directory for the file the downloader actually produced: first the
// same name with another extension (audio extraction and merging change it),
// then a similar name with the same extension.
func FindFileWithFallback(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	if strings.HasPrefix(filePath, "http://") || strings.HasPrefix(filePath, "https://") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}
	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	wantExt := filepath.Ext(filePath)
	wantBase := strings.TrimSuffix(filepath.Base(filePath), wantExt)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var sameBase, similar []string
	for _, entry := range entries {
		if entry.IsDir() || isSkipped(entry.Name()) {
			continue
		}
		ext := filepath.Ext(entry.Name())
		base := strings.TrimSuffix(entry.Name(), ext)
		path := filepath.Join(dir, entry.Name())

		switch {
		case base == wantBase:
			sameBase = append(sameBase, path)
		case ext == wantExt && isSimilarFileName(base, wantBase):
			similar = append(similar, path)
		}
	}

	for _, candidates := range [][]string{sameBase, similar} {
		if len(candidates) > 0 {
			sort.Strings(candidates)
			return candidates[0], nil
		}
	}
	return "", fmt.Errorf("file not found: %s", filePath)
}

func isSkipped(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isSimilarFileName treats names as equal when they differ only by
// surrounding separators or a short truncation
func isSimilarFileName(a, b string) bool {
	a = strings.Trim(a, " -_")
	b = strings.Trim(b, " -_")
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		diff := len(a) - len(b)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}
	return false
}
