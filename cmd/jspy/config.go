package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mgomes/jspy/jspy"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration accepted by -config.
type fileConfig struct {
	StepQuota        int            `yaml:"step_quota"`
	RecursionLimit   int            `yaml:"recursion_limit"`
	MaxArguments     int            `yaml:"max_arguments"`
	StrictProperties bool           `yaml:"strict_properties"`
	Globals          map[string]any `yaml:"globals"`
	Packages         []string       `yaml:"packages"`
	PackageDB        string         `yaml:"package_db"`
}

func loadConfig(path string) (*fileConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var cfg fileConfig
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	// relative package locations are resolved against the config file
	base := filepath.Dir(absPath)
	for i, dir := range cfg.Packages {
		if !filepath.IsAbs(dir) {
			cfg.Packages[i] = filepath.Join(base, dir)
		}
	}
	if cfg.PackageDB != "" && !filepath.IsAbs(cfg.PackageDB) {
		cfg.PackageDB = filepath.Join(base, cfg.PackageDB)
	}
	return &cfg, nil
}

func (c *fileConfig) interpreterConfig() jspy.Config {
	return jspy.Config{
		StepQuota:        c.StepQuota,
		RecursionLimit:   c.RecursionLimit,
		MaxArguments:     c.MaxArguments,
		StrictProperties: c.StrictProperties,
	}
}

func (c *fileConfig) globalValues() (map[string]jspy.Value, error) {
	out := make(map[string]jspy.Value, len(c.Globals))
	for name, raw := range c.Globals {
		val, err := jspy.FromGo(raw)
		if err != nil {
			return nil, fmt.Errorf("config: global %q: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}
