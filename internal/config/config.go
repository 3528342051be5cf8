// Package config loads the YAML run configuration for a conversion.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs         Inputs  `yaml:"inputs"`
	Outputs        Outputs `yaml:"outputs"`
	BlockItemLimit int32   `yaml:"block_item_limit"`
	Log            Log     `yaml:"log"`
}

type Inputs struct {
	BlockStates string `yaml:"block_states"`
	ItemStates  string `yaml:"item_states"`
	Capture     string `yaml:"capture"`
}

// Outputs.Index and Outputs.Diagnostics are optional; empty disables them.
type Outputs struct {
	Records     string `yaml:"records"`
	Index       string `yaml:"index"`
	Diagnostics string `yaml:"diagnostics"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Defaults() Config {
	return Config{
		Inputs: Inputs{
			BlockStates: "block_states.nbt",
			ItemStates:  "item_states.json",
			Capture:     "creative_content.pk",
		},
		Outputs: Outputs{
			Records: "creative_items.json",
		},
		BlockItemLimit: 256,
		Log:            Log{Level: "info"},
	}
}

// Load reads path over Defaults. Relative file paths in the document are
// resolved against the directory holding it.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	c.resolve(filepath.Dir(path))
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

func (c *Config) resolve(dir string) {
	for _, p := range []*string{
		&c.Inputs.BlockStates, &c.Inputs.ItemStates, &c.Inputs.Capture,
		&c.Outputs.Records, &c.Outputs.Index, &c.Outputs.Diagnostics,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Inputs.BlockStates == "" {
		errs = append(errs, errors.New("inputs.block_states is empty"))
	}
	if c.Inputs.ItemStates == "" {
		errs = append(errs, errors.New("inputs.item_states is empty"))
	}
	if c.Inputs.Capture == "" {
		errs = append(errs, errors.New("inputs.capture is empty"))
	}
	if c.Outputs.Records == "" {
		errs = append(errs, errors.New("outputs.records is empty"))
	}
	if c.BlockItemLimit <= 0 {
		errs = append(errs, fmt.Errorf("block_item_limit must be positive, got %d", c.BlockItemLimit))
	}
	return errors.Join(errs...)
}
