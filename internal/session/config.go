package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/r3labs/diff/v3"
	"gopkg.in/yaml.v3"

	"github.com/alanbriolat/media-archiver"
	"github.com/alanbriolat/media-archiver/classify"
	"github.com/alanbriolat/media-archiver/download"
	"github.com/alanbriolat/media-archiver/quality"
	"github.com/alanbriolat/media-archiver/similarity"
	"github.com/alanbriolat/media-archiver/storage"
)

type Config struct {
	// Output directory, created if missing.
	Dest string `yaml:"dest"`
	// Where to record failed items for replay; relative paths are inside Dest. Empty disables the log.
	FailureLog        string           `yaml:"failure_log"`
	OrganizeThreshold float64          `yaml:"organize_threshold"`
	Download          download.Config  `yaml:"download"`
	S3                storage.S3Config `yaml:"s3"`

	ProviderRegistry *media_archiver.ProviderRegistry `yaml:"-" diff:"-"`
	Classifier       *classify.Classifier             `yaml:"-" diff:"-"`
	Selector         *quality.Selector                `yaml:"-" diff:"-"`
}

func DefaultConfig() Config {
	return Config{
		Dest:              ".",
		FailureLog:        ".failures.tsv",
		OrganizeThreshold: similarity.DefaultThreshold,
		Download:          download.DefaultConfig,
		ProviderRegistry:  &media_archiver.DefaultProviderRegistry,
		Classifier:        classify.Default(),
		Selector:          quality.Default(),
	}
}

// LoadConfig reads a YAML config file over the defaults, so the file only needs the settings it changes.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("invalid config %v: %w", path, err)
	}
	return config, nil
}

// Overrides describes each setting in config that differs from the defaults, as "path: old -> new".
func Overrides(config Config) ([]string, error) {
	changes, err := diff.Diff(DefaultConfig(), config)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(changes))
	for _, change := range changes {
		res = append(res, fmt.Sprintf("%v: %#v -> %#v", strings.Join(change.Path, "."), change.From, change.To))
	}
	return res, nil
}
