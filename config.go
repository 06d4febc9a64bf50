package framevk

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the serializable form of the Builder settings.
//
//	title: Viewer
//	width: 1600
//	height: 900
//	borderless: false
//	clear: 0x222222ff
type Config struct {
	Title      string `yaml:"title"`
	Width      uint32 `yaml:"width"`
	Height     uint32 `yaml:"height"`
	Borderless bool   `yaml:"borderless"`
	NoResize   bool   `yaml:"no_resize"`
	Hidden     bool   `yaml:"hidden"`
	Maximized  bool   `yaml:"maximized"`
	Clear      uint32 `yaml:"clear"`
	Validation bool   `yaml:"validation"`
	Trace      bool   `yaml:"trace"`
}

// DefaultConfig returns the settings NewBuilder starts from.
func DefaultConfig() Config {
	return Config{
		Title:  "Untitled",
		Width:  1280,
		Height: 720,
		Clear:  0x222222ff,
	}
}

// DecodeConfig reads YAML from r over the defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	defer f.Close()
	return DecodeConfig(f)
}

// Flags returns the window flags selected by c.
func (c Config) Flags() Flags {
	var f Flags
	if c.Borderless {
		f |= Borderless
	}
	if c.NoResize {
		f |= NoResize
	}
	if c.Hidden {
		f |= Hidden
	}
	if c.Maximized {
		f |= Maximized
	}
	return f
}

// Apply copies c onto b.
func (c Config) Apply(b *Builder) *Builder {
	return b.Title(c.Title).
		Extent(UVec2{c.Width, c.Height}).
		Flags(c.Flags()).
		Clear(Hex(c.Clear)).
		Validation(c.Validation).
		Logger(b.logOut, c.Trace)
}
