package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectOverlayName is the per-directory config file merged over the global one.
const ProjectOverlayName = ".holdview.yaml"

// Top-level YAML config key names used for shallow merge.
const (
	keySource  = "source"
	keyOutput  = "output"
	keyCache   = "cache"
	keyLogging = "logging"
)

// ShallowMergeYAML loads a YAML file and merges its top-level sections onto the
// target Config. Within a present section, only the keys written in the overlay
// change; absent sections are left unchanged and unknown sections are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		section := sectionFor(target, key)
		if section == nil {
			continue
		}
		if err = node.Decode(section); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// sectionFor returns a pointer to the Config field for a top-level key, or nil.
func sectionFor(cfg *Config, key string) any {
	switch key {
	case keySource:
		return &cfg.Source
	case keyOutput:
		return &cfg.Output
	case keyCache:
		return &cfg.Cache
	case keyLogging:
		return &cfg.Logging
	default:
		return nil
	}
}
