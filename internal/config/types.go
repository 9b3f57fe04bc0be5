// types.go
package config

import (
	"github.com/xtding233/maprotation/internal/catalog"
	"github.com/xtding233/maprotation/internal/playlog"
	"github.com/xtding233/maprotation/internal/rotation"
)

// RawConfig is one settings file as written on disk. Pointer and empty
// string fields mean "not set here".
type RawConfig struct {
	Catalog  string      `yaml:"catalog"`
	PlayLog  string      `yaml:"play_log"`
	Players  PlayersCfg  `yaml:"players"`
	Choices  *int        `yaml:"choices"`
	Simulate SimulateCfg `yaml:"simulate"`
	Color    string      `yaml:"color"` // auto | always | never
	Log      LogCfg      `yaml:"log"`
	Scoring  *ScoringCfg `yaml:"scoring,omitempty"`
}

type PlayersCfg struct {
	Default *uint16 `yaml:"default"`
	Min     *uint16 `yaml:"min"`
	Max     *uint16 `yaml:"max"`
}

type SimulateCfg struct {
	Rounds  *int    `yaml:"rounds"`
	Players *uint16 `yaml:"players"`
}

type LogCfg struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

type ScoringCfg struct {
	AgeCap              *int     `yaml:"age_cap,omitempty"`
	RoundPenalty        *float64 `yaml:"round_penalty,omitempty"`
	HalfLife            *float64 `yaml:"half_life,omitempty"`
	CrossHalfLife       *float64 `yaml:"cross_half_life,omitempty"`
	PenaltyNonlinearity *float64 `yaml:"penalty_nonlinearity,omitempty"`
	AgePow              *float64 `yaml:"age_pow,omitempty"`
	MinScore            *float64 `yaml:"min_score,omitempty"`
	MaxScore            *float64 `yaml:"max_score,omitempty"`
	SkipDisabled        *bool    `yaml:"skip_disabled,omitempty"`
	SkipGag             *bool    `yaml:"skip_gag,omitempty"`
}

// Config is the effective configuration after defaults and every settings
// file have been merged.
type Config struct {
	Catalog  string   `yaml:"catalog" validate:"required"`
	PlayLog  string   `yaml:"play_log" validate:"required"`
	Players  Players  `yaml:"players"`
	Choices  int      `yaml:"choices" validate:"gte=1,lte=20"`
	Simulate Simulate `yaml:"simulate"`
	Color    string   `yaml:"color" validate:"oneof=auto always never"`
	Log      Log      `yaml:"log"`
	Scoring  Scoring  `yaml:"scoring"`
}

type Players struct {
	Default uint16 `yaml:"default" validate:"gtefield=Min,ltefield=Max"`
	Min     uint16 `yaml:"min" validate:"gte=1"`
	Max     uint16 `yaml:"max" validate:"gtefield=Min"`
}

type Simulate struct {
	Rounds  int    `yaml:"rounds" validate:"gte=1"`
	Players uint16 `yaml:"players"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Scoring mirrors rotation.Params with file names.
type Scoring struct {
	AgeCap              int     `yaml:"age_cap"`
	RoundPenalty        float64 `yaml:"round_penalty"`
	HalfLife            float64 `yaml:"half_life"`
	CrossHalfLife       float64 `yaml:"cross_half_life"`
	PenaltyNonlinearity float64 `yaml:"penalty_nonlinearity"`
	AgePow              float64 `yaml:"age_pow"`
	MinScore            float64 `yaml:"min_score"`
	MaxScore            float64 `yaml:"max_score"`
	SkipDisabled        bool    `yaml:"skip_disabled"`
	SkipGag             bool    `yaml:"skip_gag"`
}

// Params converts the scoring section into engine params.
func (c Config) Params() rotation.Params {
	s := c.Scoring
	return rotation.Params{
		AgeCap:              s.AgeCap,
		RoundPenalty:        s.RoundPenalty,
		HalfLife:            s.HalfLife,
		CrossHalfLife:       s.CrossHalfLife,
		PenaltyNonlinearity: s.PenaltyNonlinearity,
		AgePow:              s.AgePow,
		MinScore:            s.MinScore,
		MaxScore:            s.MaxScore,
		SkipDisabled:        s.SkipDisabled,
		SkipGag:             s.SkipGag,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	p := rotation.DefaultParams()
	return Config{
		Catalog: catalog.DefaultPath,
		PlayLog: playlog.DefaultPath,
		Players: Players{Default: 16, Min: 8, Max: 16},
		Choices: rotation.DefaultChoices,
		Simulate: Simulate{
			Rounds:  rotation.DefaultSimRounds,
			Players: rotation.DefaultSimPlayers,
		},
		Color: "auto",
		Log:   Log{Level: "warn", Format: "console"},
		Scoring: Scoring{
			AgeCap:              p.AgeCap,
			RoundPenalty:        p.RoundPenalty,
			HalfLife:            p.HalfLife,
			CrossHalfLife:       p.CrossHalfLife,
			PenaltyNonlinearity: p.PenaltyNonlinearity,
			AgePow:              p.AgePow,
			MinScore:            p.MinScore,
			MaxScore:            p.MaxScore,
		},
	}
}
