package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// devDirName namespaces re-rooted data directories inside the temp dir.
const devDirName = "jot-dev"

// IsDevRun reports whether the process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolveDataDir applies the dev safety rules to userPath. When forceTemp is
// set, paths outside the system temp dir are re-rooted to
// <tmp>/jot-dev/<base name> so development runs never touch real notes.
func ResolveDataDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	// Paths already under the temp dir (t.TempDir and friends) are trusted.
	cleanUserPath := filepath.Clean(userPath)
	tempRoot := os.TempDir()
	if filepath.IsAbs(cleanUserPath) {
		rel, err := filepath.Rel(tempRoot, cleanUserPath)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return cleanUserPath
		}
	}

	base := filepath.Join(tempRoot, devDirName)
	name := "default"
	if userPath != "" && userPath != "." && userPath != "./" {
		name = filepath.Base(cleanUserPath)
		if name == "." || name == string(os.PathSeparator) {
			name = "default"
		}
	}

	return filepath.Join(base, name)
}
