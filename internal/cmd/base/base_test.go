package base

import (
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matecat/go-dqf/pkg/attributes"
)

func TestFlagSet_Help(t *testing.T) {
	f := NewFlagSet(flag.NewFlagSet("test", flag.ContinueOnError))
	var config string
	var limit int
	f.StringVar(&config, "config", "", "Path to the configuration file")
	f.IntVar(&limit, "limit", 100, "Batch size")

	help := f.Help()
	assert.Contains(t, help, "Options:")
	assert.Contains(t, help, "-config\n      Path to the configuration file")
	assert.Contains(t, help, "-limit=100\n      Batch size")

	err := f.Parse([]string{"-unknown"})
	assert.Error(t, err)
}

func newTestCommand() *Command {
	return NewCommand(hclog.NewNullLogger(), cli.NewMockUi())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dqf.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DQF_API_KEY", "key")
	t.Setenv("DQF_SESSION_ID", "session")

	logFile := filepath.Join(t.TempDir(), "dqf.log")
	path := writeConfig(t, `
attributes {
  cache_path = "/cache/attributes.json"
}

log {
  level = "debug"
  file  = "`+logFile+`"
}
`)

	fs := afero.NewMemMapFs()
	c := newTestCommand()
	env, err := c.loadEnv(path, fs)
	require.NoError(t, err)

	snapshot, ok := env.Snapshot.(*attributes.FileSnapshot)
	require.True(t, ok)
	assert.Equal(t, "/cache/attributes.json", snapshot.Path())
	assert.Equal(t, "session", env.RepositoryConfig().Session.SessionID())
	assert.Equal(t, 100, env.RepositoryConfig().BatchLimit)

	assert.True(t, c.Log.IsDebug())
	c.Log.Debug("written to the rotating file")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to the rotating file")
}

func TestLoadEnv_MissingAPIKey(t *testing.T) {
	t.Setenv("DQF_API_KEY", "")

	_, err := newTestCommand().loadEnv("", afero.NewMemMapFs())
	assert.Error(t, err)
}

func TestEnv_InitResolverFromSnapshot(t *testing.T) {
	t.Setenv("DQF_API_KEY", "key")

	fs := afero.NewMemMapFs()
	snapshot := attributes.NewFileSnapshot(fs, "/cache/attributes.json")
	require.NoError(t, snapshot.Store(context.Background(), []attributes.Record{
		{Kind: attributes.Language, ID: 7, Name: "Italian", Code: "it-IT"},
	}))

	path := writeConfig(t, `
attributes {
  cache_path = "/cache/attributes.json"
}
`)
	env, err := newTestCommand().loadEnv(path, fs)
	require.NoError(t, err)

	require.NoError(t, env.InitResolver(context.Background()))
	id, err := env.Resolver.ResolveID(attributes.Language, "it-IT")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestEnv_InitResolverWithoutSnapshot(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/basicAttributes/aggregate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"language":[{"id":7,"name":"Italian","localeCode":"it-IT"}]}`))
	}))
	defer srv.Close()

	t.Setenv("DQF_API_KEY", "key")
	t.Setenv("DQF_SESSION_ID", "session")
	t.Setenv("DQF_BASE_URL", srv.URL)

	path := writeConfig(t, `
attributes {
  cache_path = "/cache/attributes.json"
}
`)
	fs := afero.NewMemMapFs()
	env, err := newTestCommand().loadEnv(path, fs)
	require.NoError(t, err)

	require.NoError(t, env.InitResolver(context.Background()))
	require.NoError(t, env.InitResolver(context.Background()))
	assert.Equal(t, int32(1), hits.Load(), "a loaded resolver is not reloaded")

	id, err := env.Resolver.ResolveID(attributes.Language, "it-IT")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	exists, err := afero.Exists(fs, "/cache/attributes.json")
	require.NoError(t, err)
	assert.True(t, exists, "the fetched list is written to the snapshot")
}
