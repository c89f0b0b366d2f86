package platform

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the name of the data directory, both under the home directory
// and as a project-local notebook marker.
const DirName = ".jot"

// EnvDir overrides the data directory when set.
const EnvDir = "JOT_DIR"

// ErrRootNotFound is returned by FindRoot when no ancestor holds a notebook.
var ErrRootNotFound = errors.New("root not found")

// FindRoot looks upwards from startDir for a directory containing a .jot
// directory and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if isDir(filepath.Join(dir, DirName)) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

// ResolveDir picks the data directory. The first non-empty source wins:
// the explicit flag, $JOT_DIR, a .jot directory above the working directory,
// the config file's data_dir, and finally ~/.jot.
func ResolveDir(flagDir string, cfg Config) (string, error) {
	if flagDir != "" {
		return expandHome(flagDir)
	}
	if env := os.Getenv(EnvDir); env != "" {
		return expandHome(env)
	}
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return filepath.Join(root, DirName), nil
		}
	}
	if cfg.DataDir != "" {
		return expandHome(cfg.DataDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
