package base

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matecat/go-dqf/internal/config"
	"github.com/matecat/go-dqf/pkg/attributes"
	"github.com/matecat/go-dqf/pkg/attributes/s3snapshot"
	"github.com/matecat/go-dqf/pkg/repository"
	"github.com/matecat/go-dqf/pkg/transport"
)

// Env holds the collaborators built from a configuration file.
type Env struct {
	Config    *config.Config
	Logger    hclog.Logger
	Transport transport.Transport
	Resolver  *attributes.Resolver
	Snapshot  attributes.SnapshotStore

	// Fs backs the local snapshot file.
	Fs afero.Fs
}

// LoadEnv parses the configuration at path and builds the transport,
// snapshot store and resolver. It also applies the log block to c.Log.
func (c *Command) LoadEnv(path string) (*Env, error) {
	return c.loadEnv(path, afero.NewOsFs())
}

func (c *Command) loadEnv(path string, fs afero.Fs) (*Env, error) {
	cfg, err := config.NewConfig(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	c.configureLogging(cfg.Log)

	tc, err := cfg.TransportConfig()
	if err != nil {
		return nil, fmt.Errorf("error configuring transport: %w", err)
	}
	client, err := transport.NewClient(tc, c.Log)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config:    cfg,
		Logger:    c.Log,
		Transport: client,
		Resolver:  attributes.NewResolver(c.Log),
		Fs:        fs,
	}

	if s3cfg := cfg.Attributes.S3; s3cfg != nil {
		store, err := s3snapshot.New(s3cfg, c.Log)
		if err != nil {
			return nil, fmt.Errorf("error creating S3 snapshot store: %w", err)
		}
		env.Snapshot = store
	} else {
		env.Snapshot = attributes.NewFileSnapshot(fs, cfg.Attributes.CachePath)
	}

	return env, nil
}

// configureLogging applies the log level and, when a file is set, routes
// output through a rotating writer.
func (c *Command) configureLogging(l *config.Log) {
	level := hclog.LevelFromString(l.Level)
	if l.File == "" {
		c.Log.SetLevel(level)
		return
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
		Compress:   true,
	}
	c.Log = hclog.New(&hclog.LoggerOptions{
		Name:   c.Log.Name(),
		Level:  level,
		Output: out,
	})
}

// Source returns the remote attribute source for this environment.
func (e *Env) Source() *attributes.RemoteSource {
	return &attributes.RemoteSource{
		Transport: e.Transport,
		Session:   e.Config.Session,
	}
}

// InitResolver loads the attribute list from the snapshot. When the
// snapshot is missing or cannot be read, the list is fetched remotely and
// the snapshot is rewritten. It does nothing once the resolver is loaded.
func (e *Env) InitResolver(ctx context.Context) error {
	if e.Resolver.Initialized() {
		return nil
	}

	if file, ok := e.Snapshot.(*attributes.FileSnapshot); ok {
		exists, err := file.Exists()
		if err != nil {
			return fmt.Errorf("error checking attribute snapshot: %w", err)
		}
		if !exists {
			e.Logger.Info("no attribute snapshot, fetching from the service", "path", file.Path())
			return e.Resolver.Init(ctx, e.mirror())
		}
	}

	err := e.Resolver.Init(ctx, e.Snapshot)
	if err == nil {
		return nil
	}
	e.Logger.Warn("attribute snapshot unavailable, fetching from the service", "error", err)

	return e.Resolver.Init(ctx, e.mirror())
}

func (e *Env) mirror() *attributes.Mirror {
	return &attributes.Mirror{
		From: e.Source(),
		To:   e.Snapshot,
	}
}

// RepositoryConfig returns the shared repository configuration.
func (e *Env) RepositoryConfig() repository.Config {
	return repository.Config{
		Transport:  e.Transport,
		Session:    e.Config.Session,
		Resolver:   e.Resolver,
		Logger:     e.Logger,
		BatchLimit: e.Config.Sync.BatchLimit,
	}
}
