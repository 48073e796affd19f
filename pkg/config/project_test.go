package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktools/pkg/logging"
)

const sampleProject = `
version: "1"
log:
  level: info
defaults:
  length: 10
  seed: 42
  absentRate: 0
targets:
  - name: users
    schema: schemas/user.json
    type: User
    length: 5
    format: yaml
    output: out/users.yaml
    overrides:
      id: index + 1
  - files: "protos/**/*.proto"
    format: ndjson
    output: out
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvSeed, EnvLength, EnvLogLevel, EnvLogFormat} {
		t.Setenv(name, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mocktools.yaml")
	writeFile(t, path, sampleProject)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Version, p.Version)
	assert.Equal(t, dir, p.Dir)
	assert.Equal(t, 10, p.Defaults.Length)
	require.NotNil(t, p.Defaults.Seed)
	assert.Equal(t, uint64(42), *p.Defaults.Seed)
	require.NotNil(t, p.Defaults.AbsentRate)
	assert.Zero(t, *p.Defaults.AbsentRate)
	assert.Equal(t, logging.LevelInfo, p.Log.Logging().Level)

	require.Len(t, p.Targets, 2)
	users := p.Targets[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, map[string]string{"id": "index + 1"}, users.Overrides)
	assert.Equal(t, 5, users.Synth(p.Defaults).Length)
	assert.Equal(t, uint64(42), *users.Synth(p.Defaults).Seed)

	assert.Equal(t, "protos", p.Targets[1].Name)
	assert.Equal(t, 10, p.Targets[1].Synth(p.Defaults).Length)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSeed, "7")
	t.Setenv(EnvLength, "3")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")

	p, err := Parse([]byte(sampleProject))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), *p.Defaults.Seed)
	assert.Equal(t, 3, p.Defaults.Length)

	logCfg := p.Log.Logging()
	assert.Equal(t, logging.LevelDebug, logCfg.Level)
	assert.Equal(t, logging.FormatJSON, logCfg.Format)
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSeed, "-1")

	_, err := Parse([]byte(sampleProject))
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, EnvSeed)
}

func TestParse_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"version", `version: "2"`, "unsupported version"},
		{"no source", "targets: [{name: a}]", "exactly one of schema or files"},
		{"both sources", "targets: [{name: a, schema: a.json, files: '*.json'}]", "exactly one of schema or files"},
		{"negative length", "targets: [{name: a, schema: a.json, length: -1}]", "length must not be negative"},
		{"format", "targets: [{name: a, schema: a.json, format: csv}]", "unknown output format"},
		{"kind", "targets: [{name: a, schema: a.json, kind: avro}]", "unsupported"},
		{"duplicate", "targets: [{name: a, schema: a.json}, {name: a, schema: b.json}]", "duplicate target"},
		{"log level", "log: {level: loud}", "unknown level"},
		{"defaults", "defaults: {absentRate: 2}", "defaults:"},
		{"bad pattern", "targets: [{name: a, files: '[a-'}]", "invalid files pattern"},
		{"syntax", "targets: {", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_ErrorCarriesPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mocktools.yaml")
	writeFile(t, path, `version: "9"`)

	_, err := Load(path)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, path, cfgErr.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	_, err := Find(dir)
	assert.ErrorIs(t, err, ErrNotFound)

	writeFile(t, filepath.Join(dir, "mocktools.yml"), "version: \"1\"\n")
	writeFile(t, filepath.Join(dir, ".mocktools.yaml"), "version: \"1\"\n")

	path, err := Find(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".mocktools.yaml"), path)
}

func TestTarget_ExpandSchema(t *testing.T) {
	target := Target{Name: "users", Schema: "schemas/user.json", Output: "out/users.json"}

	got, err := target.Expand("/project")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join("/project", "schemas/user.json"), got[0].Schema)
	assert.Equal(t, filepath.Join("/project", "out/users.json"), got[0].Output)

	abs := Target{Name: "abs", Schema: "/elsewhere/a.json"}
	got, err = abs.Expand("/project")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/a.json", got[0].Schema)
}

func TestTarget_ExpandFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "protos/b.proto"), "")
	writeFile(t, filepath.Join(dir, "protos/nested/a.proto"), "")
	writeFile(t, filepath.Join(dir, "protos/notes.txt"), "")

	target := Target{Name: "protos", Files: "protos/**/*.proto", Format: "yaml", Output: "out"}
	got, err := target.Expand(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, filepath.Join(dir, "protos/b.proto"), got[0].Schema)
	assert.Equal(t, "protos/b", got[0].Name)
	assert.Equal(t, filepath.Join(dir, "out", "b.yaml"), got[0].Output)
	assert.Empty(t, got[0].Files)

	assert.Equal(t, filepath.Join(dir, "protos/nested/a.proto"), got[1].Schema)
	assert.Equal(t, filepath.Join(dir, "out", "a.yaml"), got[1].Output)

	_, err = Target{Name: "none", Files: "*.graphqls"}.Expand(dir)
	var cfgErr *Error
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMarshal_RoundTrip(t *testing.T) {
	clearEnv(t)
	p, err := Parse([]byte(sampleProject))
	require.NoError(t, err)

	data, err := Marshal(p)
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, p.Targets, again.Targets)
}
