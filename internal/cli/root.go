// Package cli implements the haydnop20 command.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/divVerent/haydnop20/internal/dataset"
	"github.com/divVerent/haydnop20/internal/file"
	"github.com/divVerent/haydnop20/internal/version"
)

const defaultConfigFile = "haydnop20.yml"

type globalFlags struct {
	configFile     string
	dataHome       string
	passphraseFile string
	resolution     int
}

// NewRootCommand returns the haydnop20 command with all subcommands.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "haydnop20",
		Short:         "Harmonic analyses of Haydn's string quartets op. 20",
		Long:          `Reads the Haydn op. 20 harmonic analysis corpus: local keys, roman numerals and chords of every movement, as intervals or raw events.`,
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", defaultConfigFile, "config file name (YAML)")
	pf.StringVar(&g.dataHome, "data-home", "", "directory, .zip or .zip.age file holding the corpus")
	pf.StringVar(&g.passphraseFile, "passphrase-file", "", "file holding the passphrase of an encrypted data home")
	pf.IntVar(&g.resolution, "resolution", 0, "ticks per quarter note of annotation times")

	root.AddCommand(
		newTracksCommand(g),
		newKeysCommand(g),
		newChordsCommand(g),
		newRomansCommand(g),
		newMIDICommand(g),
		newPreloadCommand(g),
		newValidateCommand(g),
		newServeCommand(g),
		newConfigCommand(g),
	)
	return root
}

// config reads the config file and applies the flags on top.
func (g *globalFlags) config(cmd *cobra.Command) (*dataset.Config, error) {
	config := dataset.DefaultConfig()
	cfg := &config
	if g.configFile != "" {
		read, err := file.ReadConfig(os.DirFS(filepath.Dir(g.configFile)), filepath.Base(g.configFile))
		switch {
		case err == nil:
			cfg = read
		case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if g.dataHome != "" {
		cfg.DataHome = g.dataHome
	}
	if g.passphraseFile != "" {
		cfg.PassphraseFile = g.passphraseFile
	}
	if g.resolution != 0 {
		cfg.Resolution = g.resolution
	}
	return cfg, nil
}

func (g *globalFlags) passphrase(cfg *dataset.Config) func() (string, error) {
	if cfg.PassphraseFile != "" {
		return func() (string, error) {
			return file.ReadPassphraseFile(cfg.PassphraseFile)
		}
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return func() (string, error) {
		fmt.Fprint(os.Stderr, "Passphrase: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
}

// open opens the configured data home. The caller must close the returned
// data home.
func (g *globalFlags) open(cmd *cobra.Command) (*dataset.Dataset, *file.DataHome, error) {
	cfg, err := g.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	h, err := file.OpenDataHome(cfg.DataHome, g.passphrase(cfg))
	if err != nil {
		return nil, nil, err
	}
	ds, err := dataset.Open(h.FS, h.Dir, *cfg)
	if err != nil {
		h.Close()
		return nil, nil, err
	}
	return ds, h, nil
}
