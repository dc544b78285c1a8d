package cli

import (
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/greengrid/internal/config"
	"github.com/rileyhilliard/greengrid/internal/errors"
	"github.com/rileyhilliard/greengrid/internal/grid"
	"github.com/rileyhilliard/greengrid/internal/logger"
	"github.com/rileyhilliard/greengrid/internal/session"
)

// app is the simulation wiring shared by every command: one registry and
// evaluator per process, and a seed source for the generators.
type app struct {
	cfg       *config.Config
	cfgPath   string
	registry  *grid.Registry
	evaluator *grid.Evaluator
	model     grid.LoadModel
	seeds     *rand.Rand
	log       logger.Logger
}

// loadApp loads config (see config.Find), applies command flags and builds
// the registry. With a fixed seed, the registry and every generator seed
// derived from it are reproducible.
func loadApp(cmd *cobra.Command, flags SimulationFlags) (*app, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := flags.Apply(cmd, cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return newApp(cfg, path, logger.NewStderr("[greengrid]")), nil
}

func newApp(cfg *config.Config, path string, log logger.Logger) *app {
	master := grid.NewSource(cfg.Grid.Seed)
	reg := grid.NewRegistry(cfg.Grid.Substations, cfg.Grid.CapacityMin, cfg.Grid.CapacityMax, master)

	if path != "" {
		log.Debug("loaded config from %s", path)
	}
	log.Debug("%d substations, threshold %.2f, seed %d", reg.Len(), cfg.Grid.Threshold, cfg.Grid.Seed)

	return &app{
		cfg:       cfg,
		cfgPath:   path,
		registry:  reg,
		evaluator: grid.NewEvaluator(reg, cfg.Grid.Threshold),
		model:     cfg.Grid.LoadModel(),
		seeds:     master,
		log:       log,
	}
}

// newSession creates a session with its own generator.
func (a *app) newSession(options ...session.Option) *session.Session {
	gen := grid.NewGenerator(a.registry, a.model, grid.NewSource(a.seeds.Uint64()))
	return session.New(gen, a.evaluator, a.cfg.Session.Options(), options...)
}

// checkSubstation validates a --substation flag. Empty is allowed.
func (a *app) checkSubstation(id string) (string, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" || a.registry.Contains(id) {
		return id, nil
	}
	return "", errors.NewUnknownSubstation(id, a.registry.IDs())
}
