package application

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Format holds the presentation rules every export of a project must
// honor: one currency suffix, one date layout, one direction.
type Format struct {
	CurrencySuffix string `yaml:"currency_suffix"`
	DateLayout     string `yaml:"date_layout"`
	RightToLeft    bool   `yaml:"right_to_left"`
}

// FormatOverride is a partial per-project format. Unset fields keep the
// defaults; RightToLeft is a pointer so an override can turn the
// default direction off, not only on.
type FormatOverride struct {
	CurrencySuffix string `yaml:"currency_suffix"`
	DateLayout     string `yaml:"date_layout"`
	RightToLeft    *bool  `yaml:"right_to_left"`
}

// FormatConfig defines report formatting, optionally overridden per
// project.
type FormatConfig struct {
	Defaults Format                    `yaml:"defaults"`
	Projects map[string]FormatOverride `yaml:"projects"`
}

// LoadFormatConfig loads formatting rules from yaml, falling back to
// built-in defaults when REPORT_CONFIG is unset.
func LoadFormatConfig() (FormatConfig, error) {
	cfg := FormatConfig{
		Defaults: Format{
			CurrencySuffix: "EGP",
			DateLayout:     "2006-01-02",
			RightToLeft:    true,
		},
	}
	if path := os.Getenv("REPORT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if cfg.Defaults.CurrencySuffix == "" {
		cfg.Defaults.CurrencySuffix = "EGP"
	}
	if cfg.Defaults.DateLayout == "" {
		cfg.Defaults.DateLayout = "2006-01-02"
	}
	return cfg, nil
}

// FormatForProject returns the effective format for a project.
func (c FormatConfig) FormatForProject(projectID string) Format {
	if c.Projects != nil {
		if override, ok := c.Projects[projectID]; ok {
			return mergeFormat(c.Defaults, override)
		}
	}
	return c.Defaults
}

func mergeFormat(base Format, override FormatOverride) Format {
	if override.CurrencySuffix != "" {
		base.CurrencySuffix = override.CurrencySuffix
	}
	if override.DateLayout != "" {
		base.DateLayout = override.DateLayout
	}
	if override.RightToLeft != nil {
		base.RightToLeft = *override.RightToLeft
	}
	return base
}
