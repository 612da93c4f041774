package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/src-d/enry/v2"
)

// RepositoryProfile describes inferred attributes of a working copy, used to
// bias content generation towards the repository's dominant style. Analysis
// is best effort: a failure never blocks generation.
type RepositoryProfile struct {
	DominantLanguage string `json:"dominantLanguage,omitempty"`
	NamingStyle      string `json:"namingStyle,omitempty"`
	FileCount        int    `json:"fileCount"`
}

const (
	maxAnalyzedFiles = 200
	maxSampleBytes   = 16 * 1024
)

// AnalyzeWorkingCopy scans the working copy and infers the dominant language
// and file naming style.
func AnalyzeWorkingCopy(path string) (*RepositoryProfile, error) {
	languageCounts := make(map[string]int)
	snakeCount := 0
	camelCount := 0
	fileCount := 0

	err := filepath.WalkDir(path, func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if fileCount >= maxAnalyzedFiles {
			return filepath.SkipAll
		}

		relPath, err := filepath.Rel(path, filePath)
		if err != nil {
			relPath = filePath
		}
		if enry.IsVendor(relPath) || enry.IsDotFile(relPath) {
			return nil
		}

		fileCount++

		sample := readSample(filePath)
		if language := enry.GetLanguage(entry.Name(), sample); language != "" && language != enry.OtherLanguage {
			languageCounts[language]++
		}

		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if strings.Contains(base, "_") {
			snakeCount++
		} else if hasInnerUpper(base) {
			camelCount++
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk working copy: %w", err)
	}

	if fileCount == 0 {
		return nil, fmt.Errorf("working copy contains no analyzable files")
	}

	profile := &RepositoryProfile{
		FileCount:   fileCount,
		NamingStyle: namingStyle(snakeCount, camelCount),
	}

	dominant := ""
	for language, count := range languageCounts {
		if dominant == "" || count > languageCounts[dominant] {
			dominant = language
		}
	}
	profile.DominantLanguage = dominant

	log.Debug().
		Str("path", path).
		Str("language", profile.DominantLanguage).
		Str("namingStyle", profile.NamingStyle).
		Int("files", profile.FileCount).
		Msg("Analyzed working copy")

	return profile, nil
}

func readSample(filePath string) []byte {
	file, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer file.Close()

	sample := make([]byte, maxSampleBytes)
	n, _ := file.Read(sample)
	return sample[:n]
}

func hasInnerUpper(name string) bool {
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func namingStyle(snakeCount, camelCount int) string {
	switch {
	case snakeCount == 0 && camelCount == 0:
		return ""
	case snakeCount >= 2*camelCount:
		return "snake_case"
	case camelCount >= 2*snakeCount:
		return "camelCase"
	default:
		return "mixed"
	}
}
