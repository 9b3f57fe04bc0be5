package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalFile is the settings file looked up in the working directory.
const LocalFile = "mappick.yaml"

// DefaultFiles lists the settings files merged when none is given explicitly:
// the per-user file first, then the one in the working directory.
func DefaultFiles() []string {
	var files []string
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "mappick", "config.yaml"))
	}
	return append(files, LocalFile)
}

// Load merges defaults <- files[0] <- files[1] ... and validates the result.
// Missing files are skipped.
func Load(files ...string) (Config, error) {
	var merged RawConfig
	for _, f := range files {
		raw, err := readYAML(f)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		merged = mergeRaw(merged, raw)
	}
	cfg := Apply(Default(), merged)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile is Load for a single file that has to exist.
func LoadFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Load(path)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a: every field set in b wins.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Catalog != "" {
		out.Catalog = b.Catalog
	}
	if b.PlayLog != "" {
		out.PlayLog = b.PlayLog
	}
	if b.Color != "" {
		out.Color = b.Color
	}
	if b.Choices != nil {
		out.Choices = b.Choices
	}

	// players
	if b.Players.Default != nil {
		out.Players.Default = b.Players.Default
	}
	if b.Players.Min != nil {
		out.Players.Min = b.Players.Min
	}
	if b.Players.Max != nil {
		out.Players.Max = b.Players.Max
	}

	// simulate
	if b.Simulate.Rounds != nil {
		out.Simulate.Rounds = b.Simulate.Rounds
	}
	if b.Simulate.Players != nil {
		out.Simulate.Players = b.Simulate.Players
	}

	// log
	if b.Log.Level != "" {
		out.Log.Level = b.Log.Level
	}
	if b.Log.Format != "" {
		out.Log.Format = b.Log.Format
	}

	// scoring
	switch {
	case out.Scoring == nil && b.Scoring != nil:
		c := *b.Scoring
		out.Scoring = &c
	case out.Scoring != nil && b.Scoring != nil:
		c := *out.Scoring
		s := b.Scoring
		setIf(&c.AgeCap, s.AgeCap)
		setIf(&c.RoundPenalty, s.RoundPenalty)
		setIf(&c.HalfLife, s.HalfLife)
		setIf(&c.CrossHalfLife, s.CrossHalfLife)
		setIf(&c.PenaltyNonlinearity, s.PenaltyNonlinearity)
		setIf(&c.AgePow, s.AgePow)
		setIf(&c.MinScore, s.MinScore)
		setIf(&c.MaxScore, s.MaxScore)
		setIf(&c.SkipDisabled, s.SkipDisabled)
		setIf(&c.SkipGag, s.SkipGag)
		out.Scoring = &c
	}

	return out
}

func setIf[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func valueIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Apply resolves raw over base.
func Apply(base Config, raw RawConfig) Config {
	out := base
	if raw.Catalog != "" {
		out.Catalog = raw.Catalog
	}
	if raw.PlayLog != "" {
		out.PlayLog = raw.PlayLog
	}
	if raw.Color != "" {
		out.Color = raw.Color
	}
	valueIf(&out.Choices, raw.Choices)
	valueIf(&out.Players.Default, raw.Players.Default)
	valueIf(&out.Players.Min, raw.Players.Min)
	valueIf(&out.Players.Max, raw.Players.Max)
	valueIf(&out.Simulate.Rounds, raw.Simulate.Rounds)
	valueIf(&out.Simulate.Players, raw.Simulate.Players)
	if raw.Log.Level != "" {
		out.Log.Level = raw.Log.Level
	}
	if raw.Log.Format != "" {
		out.Log.Format = raw.Log.Format
	}
	if s := raw.Scoring; s != nil {
		valueIf(&out.Scoring.AgeCap, s.AgeCap)
		valueIf(&out.Scoring.RoundPenalty, s.RoundPenalty)
		valueIf(&out.Scoring.HalfLife, s.HalfLife)
		valueIf(&out.Scoring.CrossHalfLife, s.CrossHalfLife)
		valueIf(&out.Scoring.PenaltyNonlinearity, s.PenaltyNonlinearity)
		valueIf(&out.Scoring.AgePow, s.AgePow)
		valueIf(&out.Scoring.MinScore, s.MinScore)
		valueIf(&out.Scoring.MaxScore, s.MaxScore)
		valueIf(&out.Scoring.SkipDisabled, s.SkipDisabled)
		valueIf(&out.Scoring.SkipGag, s.SkipGag)
	}
	return out
}

// Marshal renders cfg as YAML, for `mappick config`.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
