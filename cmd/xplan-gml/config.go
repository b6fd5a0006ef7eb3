package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/diwise/xplan-gml/internal/pkg/application/planservice"
	"github.com/diwise/xplan-gml/internal/pkg/infrastructure/storage"
	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	"github.com/diwise/xplan-gml/pkg/xplan/version"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	configPath FlagType = iota
	revision
	outputPath
)

type AppConfig struct {
	serviceConfig *planservice.Config
	dbConfig      storage.Config
}

func loadAppConfig(ctx context.Context, flags FlagMap) (*AppConfig, error) {
	cfg := &AppConfig{
		serviceConfig: planservice.DefaultConfig(),
		dbConfig:      storage.LoadConfiguration(ctx),
	}

	if path := flags[configPath]; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open configuration file: %w", err)
		}
		defer f.Close()

		cfg.serviceConfig, err = planservice.LoadConfiguration(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	return cfg, nil
}

// revisionFrom returns the revision given on the command line, or an empty
// revision to let the service pick its configured default
func revisionFrom(flags FlagMap) (version.Revision, error) {
	if flags[revision] == "" {
		return "", nil
	}
	return version.Parse(flags[revision])
}

// newStore connects to the database when one is configured. Without a
// database the store only lives for the duration of the command.
func newStore(ctx context.Context, cfg *AppConfig, required bool) (storage.Store, error) {
	if !cfg.dbConfig.Configured() {
		if required {
			return nil, fmt.Errorf("no database configured, set POSTGRES_HOST")
		}
		return storage.NewMemoryStore(catalog.Default()), nil
	}

	return storage.NewPostgresStore(ctx, cfg.dbConfig, catalog.Default())
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// closeOutput closes out and removes a partially written output file when err is set
func closeOutput(out io.Closer, path string, err error) error {
	cerr := out.Close()
	if err == nil {
		err = cerr
	}
	if err != nil && path != "" && path != "-" {
		os.Remove(path)
	}
	return err
}
