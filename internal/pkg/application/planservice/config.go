package planservice

import (
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v2"

	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

type ExportConfig struct {
	Revision string `yaml:"revision"`
	Indent   int    `yaml:"indent"`
}

type ArchiveConfig struct {
	Prefix string `yaml:"prefix"`
}

type ImportConfig struct {
	// RejectOnDiagnostics refuses to store plans that were read with node level problems
	RejectOnDiagnostics bool `yaml:"rejectOnDiagnostics"`
}

type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Archive ArchiveConfig `yaml:"archive"`
	Import  ImportConfig  `yaml:"import"`
}

func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			Revision: version.V6_0.String(),
			Indent:   2,
		},
		Archive: ArchiveConfig{
			Prefix: "anlagen",
		},
	}
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	err = yaml.Unmarshal(buf, cfg)
	if err != nil {
		return nil, err
	}

	if _, err = version.Parse(cfg.Export.Revision); err != nil {
		return nil, fmt.Errorf("invalid export configuration: %w", err)
	}

	if cfg.Export.Indent < 0 {
		return nil, fmt.Errorf("invalid export configuration: negative indent %d", cfg.Export.Indent)
	}

	return cfg, nil
}

// ExportRevision returns the revision plans are written in unless told otherwise
func (c *Config) ExportRevision() version.Revision {
	rev, err := version.Parse(c.Export.Revision)
	if err != nil {
		return version.V6_0
	}
	return rev
}
