package experiment

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/valleycar/agent"
	"github.com/samuelfneumann/valleycar/agent/critic"
	"github.com/samuelfneumann/valleycar/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/valleycar/environment/envconfig"
	"github.com/samuelfneumann/valleycar/initwfn"
	"github.com/samuelfneumann/valleycar/network"
	"github.com/samuelfneumann/valleycar/solver"
	"github.com/samuelfneumann/valleycar/utils/matutils/tilecoder"
)

// EncoderType names a state encoder
type EncoderType string

// Available encoders
const (
	TileCoder   EncoderType = "TileCoder"
	CoarseCoder EncoderType = "CoarseCoder"
)

// EncoderConfig describes the state encoder. Tilings is only used by
// the TileCoder and Overlap only by the CoarseCoder.
type EncoderConfig struct {
	Type        EncoderType
	Tilings     int `json:",omitempty"`
	Granularity []int
	Overlap     []float64 `json:",omitempty"`
}

// Create returns the encoder described by the configuration over the
// given ranges
func (e EncoderConfig) Create(ranges []r1.Interval,
	seed uint64) (tilecoder.Encoder, error) {
	switch e.Type {
	case TileCoder:
		return tilecoder.NewTileCoder(ranges, e.Granularity, e.Tilings, seed)

	case CoarseCoder:
		overlap := e.Overlap
		if overlap == nil {
			overlap = make([]float64, len(ranges))
		}
		return tilecoder.NewCoarseCoder(ranges, e.Granularity, overlap)
	}
	return nil, fmt.Errorf("create: no such encoder %q", e.Type)
}

// CriticConfig configures the critic and its value network
type CriticConfig struct {
	DiscountFactor float64
	TraceDecay     float64 // λ

	Hidden     []int
	Activation *network.Activation `json:",omitempty"`
	Init       *initwfn.InitWFn
	Solver     *solver.Solver
}

// criticConfig returns the configuration of the critic itself
func (c CriticConfig) criticConfig() critic.Config {
	return critic.Config{
		DiscountFactor: c.DiscountFactor,
		TraceDecay:     c.TraceDecay,
	}
}

// networkConfig returns the configuration of the critic's value network
func (c CriticConfig) networkConfig() network.Config {
	return network.Config{
		Hidden:     c.Hidden,
		Activation: c.Activation,
		Init:       c.Init,
		Solver:     c.Solver,
	}
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c CriticConfig) Validate() error {
	if err := c.criticConfig().Validate(); err != nil {
		return err
	}
	return c.networkConfig().Validate()
}

// Config represents a configuration of an experiment: the environment,
// the agent and how long to train it for. A Config is not modified
// while an experiment runs.
type Config struct {
	Episodes int
	MaxSteps int
	Seed     uint64

	Env     envconfig.Config
	Encoder EncoderConfig
	Actor   agent.Config
	Critic  CriticConfig
}

// LoadConfig reads and validates a JSON configuration file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read config: %v",
			err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not decode config: %v",
			err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}
	return c, nil
}

// Validate returns an error describing whether or not the
// configuration is valid or not.
func (c Config) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("validate: episodes must be positive, have %v",
			c.Episodes)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("validate: max steps must be positive, have %v",
			c.MaxSteps)
	}
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("validate: env: %v", err)
	}
	if err := c.Actor.Validate(); err != nil {
		return fmt.Errorf("validate: actor: %v", err)
	}
	if err := c.Critic.Validate(); err != nil {
		return fmt.Errorf("validate: critic: %v", err)
	}
	return nil
}

// Seeds for each component of a run are offset from the run's seed so
// that no two components share a random stream
const (
	envSeed uint64 = iota
	encoderSeed
	actorSeed
	criticSeed
	numSeeds
)

// Create returns the experiment of the given run. Runs differ only in
// their seeds, and each run owns every component it uses.
func (c Config) Create(run int, t ...Tracker) (*Episodic, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	seed := c.Seed + uint64(run)*numSeeds

	env, _, err := c.Env.Create(c.MaxSteps, seed+envSeed)
	if err != nil {
		return nil, fmt.Errorf("create: could not create environment: %v",
			err)
	}

	encoder, err := c.Encoder.Create(mountaincar.Bounds(), seed+encoderSeed)
	if err != nil {
		return nil, fmt.Errorf("create: could not create encoder: %v", err)
	}

	actor, err := agent.NewActor(c.Actor, seed+actorSeed)
	if err != nil {
		return nil, fmt.Errorf("create: could not create actor: %v", err)
	}

	net, err := network.New(encoder.Len(), c.Critic.networkConfig())
	if err != nil {
		return nil, fmt.Errorf("create: could not create value network: %v",
			err)
	}

	crit, err := critic.New(net, c.Critic.criticConfig(), seed+criticSeed)
	if err != nil {
		return nil, fmt.Errorf("create: could not create critic: %v", err)
	}

	return NewEpisodic(env, encoder, actor, crit, c.Episodes, c.MaxSteps,
		t...)
}
