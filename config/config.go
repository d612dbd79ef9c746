// Package config loads the game settings from YAML.
package config

import (
	"os"
	"time"

	"snake-arena/game"
	"snake-arena/game/types"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	VariantArena   = "arena"
	VariantClassic = "classic"

	minBoardCells = 4
)

type Board struct {
	Width    int `yaml:"width" json:"width"`
	Height   int `yaml:"height" json:"height"`
	CellSize int `yaml:"cell_size" json:"cell_size"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Config struct {
	Variant         string           `yaml:"variant" json:"variant"`
	Board           Board            `yaml:"board" json:"board"`
	Difficulty      types.Difficulty `yaml:"difficulty" json:"difficulty"`
	BotMode         bool             `yaml:"bot_mode" json:"bot_mode"`
	TypedFood       bool             `yaml:"typed_food" json:"typed_food"`
	FoodIntervalMS  int              `yaml:"food_interval_ms" json:"food_interval_ms"`
	BoostDurationMS int              `yaml:"boost_duration_ms" json:"boost_duration_ms"`
	FrameIntervalMS int              `yaml:"frame_interval_ms" json:"frame_interval_ms"`
	Seed            uint64           `yaml:"seed" json:"seed"`
	Server          Server           `yaml:"server" json:"server"`
	Debug           bool             `yaml:"debug" json:"debug"`
}

// Default is the arena variant.
func Default() Config {
	return Config{
		Variant: VariantArena,
		Board: Board{
			Width:    types.ArenaCells,
			Height:   types.ArenaCells,
			CellSize: types.CellSize,
		},
		Difficulty:      types.Easy,
		TypedFood:       true,
		FoodIntervalMS:  int(game.DefaultFoodInterval / time.Millisecond),
		BoostDurationMS: int(game.DefaultBoostDuration / time.Millisecond),
		FrameIntervalMS: int(game.DefaultFrameInterval / time.Millisecond),
		Server:          Server{Addr: ":8080"},
	}
}

// Classic is the 20x20 board with plain food only.
func Classic() Config {
	cfg := Default()
	cfg.Variant = VariantClassic
	cfg.Board.Width = types.ClassicCells
	cfg.Board.Height = types.ClassicCells
	cfg.TypedFood = false
	return cfg
}

// Preset returns the defaults for a named variant.
func Preset(variant string) (Config, error) {
	switch variant {
	case "", VariantArena:
		return Default(), nil
	case VariantClassic:
		return Classic(), nil
	}
	return Config{}, errors.Errorf("unknown variant %q", variant)
}

// Load reads path over the defaults of the variant it names. An empty path
// returns the arena defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	var probe struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}

	cfg, err := Preset(probe.Variant)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Variant != VariantArena && c.Variant != VariantClassic {
		return errors.Errorf("unknown variant %q", c.Variant)
	}
	if c.Board.CellSize <= 0 {
		return errors.Errorf("cell_size must be positive, got %d", c.Board.CellSize)
	}
	if c.Board.Width < minBoardCells || c.Board.Height < minBoardCells {
		return errors.Errorf("board must be at least %dx%d cells, got %dx%d",
			minBoardCells, minBoardCells, c.Board.Width, c.Board.Height)
	}
	if !c.Difficulty.Valid() {
		return errors.Errorf("unknown difficulty %q", c.Difficulty)
	}
	if c.FoodIntervalMS <= 0 || c.BoostDurationMS <= 0 || c.FrameIntervalMS <= 0 {
		return errors.New("intervals must be positive")
	}
	return nil
}

func (c Config) Grid() types.Grid {
	return types.NewGrid(c.Board.Width, c.Board.Height, c.Board.CellSize)
}

// Options converts the file settings into session options.
func (c Config) Options() game.Options {
	return game.Options{
		Grid:          c.Grid(),
		Difficulty:    c.Difficulty,
		BotMode:       c.BotMode,
		TypedFood:     c.TypedFood,
		FoodInterval:  time.Duration(c.FoodIntervalMS) * time.Millisecond,
		BoostDuration: time.Duration(c.BoostDurationMS) * time.Millisecond,
		FrameInterval: time.Duration(c.FrameIntervalMS) * time.Millisecond,
		Seed:          c.Seed,
	}
}
