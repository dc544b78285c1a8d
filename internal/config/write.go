package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sectionComments are written above each top-level key by Marshal.
var sectionComments = map[string]string{
	"grid":      "Simulated substations and how their load is drawn",
	"session":   "How much history each dashboard session keeps",
	"dashboard": "Refresh loop shared by the terminal and web dashboards",
	"server":    "Web dashboard (greengrid serve)",
}

// fileConfig mirrors Config with durations as strings, so the file reads
// "2s" instead of a nanosecond count.
type fileConfig struct {
	Version   int           `yaml:"version"`
	Grid      GridConfig    `yaml:"grid"`
	Session   SessionConfig `yaml:"session"`
	Dashboard struct {
		Title               string `yaml:"title"`
		Interval            string `yaml:"interval"`
		SampleOnInteraction bool   `yaml:"sample_on_interaction"`
	} `yaml:"dashboard"`
	Server struct {
		Addr       string `yaml:"addr"`
		SessionTTL string `yaml:"session_ttl"`
	} `yaml:"server"`
}

func toFileConfig(cfg *Config) fileConfig {
	var fc fileConfig
	fc.Version = cfg.Version
	fc.Grid = cfg.Grid
	fc.Session = cfg.Session
	fc.Dashboard.Title = cfg.Dashboard.Title
	fc.Dashboard.Interval = cfg.Dashboard.Interval.String()
	fc.Dashboard.SampleOnInteraction = cfg.Dashboard.SampleOnInteraction
	fc.Server.Addr = cfg.Server.Addr
	fc.Server.SessionTTL = cfg.Server.SessionTTL.String()
	return fc
}

// Marshal renders cfg as commented YAML that Load can read back.
func Marshal(cfg *Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(toFileConfig(cfg)); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	if doc.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Content); i += 2 {
			key := doc.Content[i]
			if comment, ok := sectionComments[key.Value]; ok {
				key.HeadComment = comment
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("# GreenGrid configuration\n")
	buf.WriteString("# Environment variables override any key, e.g. GREENGRID_SERVER_ADDR=:9000\n\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path, creating parent directories as needed.
// An existing file is only replaced when overwrite is true.
func Write(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return os.ErrExist
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
