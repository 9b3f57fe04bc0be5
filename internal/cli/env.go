package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xtding233/maprotation/internal/catalog"
	"github.com/xtding233/maprotation/internal/config"
	"github.com/xtding233/maprotation/internal/logging"
	"github.com/xtding233/maprotation/internal/playlog"
	"github.com/xtding233/maprotation/internal/rotation"
	"github.com/xtding233/maprotation/internal/ui"
)

// env is everything a command needs once flags and settings are resolved.
type env struct {
	cfg    config.Config
	log    zerolog.Logger
	cat    *catalog.Catalog
	rec    *rotation.Recommender
	styles *ui.Styles
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

// loadConfig merges the settings files and applies the flag overrides.
func (o *options) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(config.DefaultFiles()...)
	}
	if err != nil {
		return config.Config{}, err
	}

	cfg = config.Apply(cfg, config.RawConfig{
		Catalog: o.catalogPath,
		PlayLog: o.playLogPath,
		Color:   o.color,
		Log:     config.LogCfg{Level: o.logLevel},
	})
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setup loads settings and the catalog and builds the recommender.
func (o *options) setup(cmd *cobra.Command) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		NoColor: !ui.ColorEnabled(cfg.Color, o.lookupEnv, o.errOut),
		Output:  o.errOut,
	})
	if err != nil {
		return nil, err
	}
	log = log.With().Str("cmd", cmd.Name()).Logger()

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.Catalog).Int("maps", cat.Len()).Int("groups", len(cat.Groups())).Msg("catalog loaded")

	rng := rotation.DefaultRNG()
	if o.seed != 0 {
		rng = rotation.NewSeededRNG(o.seed)
	}
	rec, err := rotation.New(cat,
		rotation.WithParams(cfg.Params()),
		rotation.WithRNG(rng),
		rotation.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		log:    log,
		cat:    cat,
		rec:    rec,
		styles: ui.NewStyles(o.out, ui.ColorEnabled(cfg.Color, o.lookupEnv, o.out)),
		out:    o.out,
		errOut: o.errOut,
		now:    time.Now,
	}, nil
}

// playLog opens the play log and reads the history.
func (e *env) playLog() (*playlog.Store, []*catalog.Map, error) {
	store := playlog.New(e.cfg.PlayLog)
	history, err := store.Load(e.cat)
	if err != nil {
		return nil, nil, err
	}
	e.log.Info().Str("path", store.Path()).Int("entries", len(history)).Msg("play log loaded")
	return store, history, nil
}

// draw offers k maps, or every candidate when fewer than k maps fit.
func (e *env) draw(history []*catalog.Map, mode catalog.Mode, players uint16, k int) ([]rotation.Candidate, error) {
	opts, err := e.rec.Recommend(history, mode, players, k)
	if errors.Is(err, rotation.ErrInsufficientCandidates) {
		return e.rec.AllCandidates(history, mode, players)
	}
	return opts, err
}

func (e *env) checkPlayers(p uint16) error {
	if p < e.cfg.Players.Min || p > e.cfg.Players.Max {
		return e.playersRange()
	}
	return nil
}

func (e *env) playersRange() error {
	return fmt.Errorf("players must be between %d and %d", e.cfg.Players.Min, e.cfg.Players.Max)
}

func errorStyles(w io.Writer) *ui.Styles {
	return ui.NewStyles(w, ui.ColorEnabled(ui.ColorAuto, os.LookupEnv, w))
}

func modeList() string { return strings.Join(modeNames(), ", ") }
