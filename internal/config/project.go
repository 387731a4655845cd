package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoOverlay is returned by FindProjectOverlay when no .holdview.yaml exists
// between the start directory and the filesystem root.
var ErrNoOverlay = errors.New("no project overlay found")

// FindProjectOverlay walks up from startDir looking for a .holdview.yaml file
// and returns its absolute path.
func FindProjectOverlay(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, ProjectOverlayName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", statErr
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoOverlay
		}
		dir = parent
	}
}

// applyProjectOverlay merges the nearest project overlay above the working
// directory into cfg. A missing overlay is not an error.
func applyProjectOverlay(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return nil //nolint:nilerr // No working directory means no overlay to apply.
	}
	overlay, err := FindProjectOverlay(wd)
	if err != nil {
		if errors.Is(err, ErrNoOverlay) {
			return nil
		}
		return err
	}
	return ShallowMergeYAML(cfg, overlay)
}
