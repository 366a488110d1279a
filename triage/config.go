package triage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig points the optional processing-history archive at a
// folder of monthly rolling SQLite files (<prefix><YYYYMM>.db).
type DatabaseConfig struct {
	Folder string `yaml:"folder"`
	Prefix string `yaml:"prefix"`
}

// FileConfig is the YAML configuration file. Every field is optional;
// zero values fall back to the built-in defaults.
type FileConfig struct {
	// Roster replaces the fixed clerk roster when non-empty.
	Roster []string `yaml:"roster"`

	// Aliases overrides the column alias list of individual canonical
	// fields, e.g. {case_id: ["Número do Processo", "processo"]}.
	// Unknown canonical names are rejected at load time.
	Aliases map[string][]string `yaml:"aliases"`

	// TopN bounds the passive-pole, court and subject tables (default 10).
	TopN int `yaml:"top_n"`

	// UTCOffsetHours sets the reference clock zone (default -3, Brasília).
	UTCOffsetHours *int `yaml:"utc_offset_hours"`

	// Database enables the processing-history archive when Folder is set.
	Database DatabaseConfig `yaml:"database"`

	// ErrorDir, when set, receives source files that failed to read.
	ErrorDir string `yaml:"error_dir"`

	Debug bool `yaml:"debug"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *FileConfig) validate() error {
	known := make(map[string]struct{}, len(canonicalFields))
	for _, f := range canonicalFields {
		known[string(f)] = struct{}{}
	}
	for name, aliases := range c.Aliases {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("aliases: unknown canonical field %q", name)
		}
		if len(aliases) == 0 {
			return fmt.Errorf("aliases: empty alias list for %q", name)
		}
	}
	for i, name := range c.Roster {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("roster: blank entry at index %d", i)
		}
	}
	return nil
}

// AliasTable merges the default alias table with the config overrides.
func (c *FileConfig) AliasTable() AliasTable {
	at := DefaultAliasTable()
	for name, aliases := range c.Aliases {
		at[Field(name)] = append([]string(nil), aliases...)
	}
	return at
}

// RosterOrDefault returns the configured roster, or the fixed default.
func (c *FileConfig) RosterOrDefault() []string {
	if len(c.Roster) > 0 {
		return append([]string(nil), c.Roster...)
	}
	return DefaultRoster()
}

// ReferenceZone returns the configured reference time zone.
func (c *FileConfig) ReferenceZone() *time.Location {
	if c.UTCOffsetHours == nil {
		return brazilZone
	}
	h := *c.UTCOffsetHours
	return time.FixedZone(fmt.Sprintf("UTC%+d", h), h*60*60)
}
