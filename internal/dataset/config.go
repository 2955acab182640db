package dataset

import (
	"runtime"

	"github.com/divVerent/haydnop20/internal/render"
)

// Config controls how a data home is opened and read.
type Config struct {
	// DataHome is a directory, a .zip file or an age-encrypted .zip.age file.
	DataHome string `yaml:"data_home"`
	// Version selects the index file.
	Version string `yaml:"version"`
	// Resolution is the number of ticks per quarter note of annotation times.
	Resolution int `yaml:"resolution"`

	MIDITicksPerQuarter int     `yaml:"midi_ticks_per_quarter"`
	MIDITempo           float64 `yaml:"midi_tempo"`
	// MIDIDir receives rendered MIDI files. If empty, they go next to the score.
	MIDIDir string `yaml:"midi_dir,omitempty"`

	// Workers bounds preload concurrency; 0 means one per CPU.
	Workers int `yaml:"workers"`

	PassphraseFile string `yaml:"passphrase_file,omitempty"`
}

// DefaultConfig returns the settings used for anything a config file leaves out.
func DefaultConfig() Config {
	return Config{
		DataHome:            ".",
		Version:             DefaultVersion,
		Resolution:          28,
		MIDITicksPerQuarter: 480,
		MIDITempo:           120,
	}
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

func (c *Config) renderOptions() render.Options {
	opts := render.DefaultOptions()
	if c.MIDITicksPerQuarter > 0 {
		opts.TicksPerQuarter = c.MIDITicksPerQuarter
	}
	if c.MIDITempo > 0 {
		opts.Tempo = c.MIDITempo
	}
	return opts
}
