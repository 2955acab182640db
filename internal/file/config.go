package file

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/divVerent/haydnop20/internal/dataset"
)

// ReadConfig reads a YAML config file. Settings it leaves out keep their
// defaults.
func ReadConfig(fsys fs.FS, configFile string) (*dataset.Config, error) {
	f, err := fsys.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %w", configFile, err)
	}
	defer f.Close()
	var config dataset.Config
	err = yaml.NewDecoder(f).Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", configFile, err)
	}
	merged := Merge(dataset.DefaultConfig(), config)
	return &merged, nil
}

// WriteConfig writes a YAML config file.
func WriteConfig(configFile string, config *dataset.Config) (err error) {
	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", configFile, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2) // Match yq.
	err = enc.Encode(config)
	if err != nil {
		return fmt.Errorf("could not encode %v: %w", configFile, err)
	}
	return enc.Close()
}
