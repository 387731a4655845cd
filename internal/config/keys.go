package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Get returns the value at a dotted key such as "source.url" or "cache.ttl_seconds".
// Sections are returned as YAML.
func (c *Config) Get(key string) (string, error) {
	tree, err := c.tree()
	if err != nil {
		return "", err
	}

	var node any = tree
	for _, part := range strings.Split(key, ".") {
		section, ok := node.(map[string]any)
		if !ok {
			return "", fmt.Errorf("unknown config key %q", key)
		}
		node, ok = section[part]
		if !ok {
			return "", fmt.Errorf("unknown config key %q", key)
		}
	}

	if section, ok := node.(map[string]any); ok {
		out, marshalErr := yaml.Marshal(section)
		if marshalErr != nil {
			return "", marshalErr
		}
		return strings.TrimRight(string(out), "\n"), nil
	}
	return fmt.Sprint(node), nil
}

// Keys returns every leaf key in dotted form, sorted.
func (c *Config) Keys() ([]string, error) {
	tree, err := c.tree()
	if err != nil {
		return nil, err
	}
	var keys []string
	collectKeys("", tree, &keys)
	sort.Strings(keys)
	return keys, nil
}

func (c *Config) tree() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("reading config tree: %w", err)
	}
	return tree, nil
}

func collectKeys(prefix string, node map[string]any, keys *[]string) {
	for k, v := range node {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			collectKeys(full, child, keys)
			continue
		}
		*keys = append(*keys, full)
	}
}
