package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mocktools/pkg/frontend"
	"github.com/getmockd/mocktools/pkg/logging"
	"github.com/getmockd/mocktools/pkg/output"
	"github.com/getmockd/mocktools/pkg/synth"
)

// Version is the only supported project file version.
const Version = "1"

// FileNames are the project file names Find looks for, in order.
var FileNames = []string{".mocktools.yaml", ".mocktools.yml", "mocktools.yaml", "mocktools.yml"}

// ErrNotFound is returned by Find when no project file exists.
var ErrNotFound = errors.New("no mocktools.yaml found")

// Project is a parsed mocktools.yaml.
type Project struct {
	Version  string       `json:"version" yaml:"version"`
	Log      LogConfig    `json:"log,omitempty" yaml:"log,omitempty"`
	Defaults synth.Config `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Targets  []Target     `json:"targets" yaml:"targets"`

	// Dir is the directory holding the project file. Relative schema,
	// files and output paths are resolved against it.
	Dir string `json:"-" yaml:"-"`
}

// LogConfig selects the CLI log level and format.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Logging converts c into a logging.Config on top of the CLI defaults.
func (c LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if level, ok := logging.LookupLevel(c.Level); ok {
		cfg.Level = level
	}
	if format, ok := logging.LookupFormat(c.Format); ok {
		cfg.Format = format
	}
	return cfg
}

// Target is one generation job.
type Target struct {
	Name string `json:"name" yaml:"name"`

	// Schema is a single schema file. Files is a doublestar glob matching
	// several. Exactly one must be set.
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Files  string `json:"files,omitempty" yaml:"files,omitempty"`

	// Kind forces the front-end instead of detecting it from the extension.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	Length *int    `json:"length,omitempty" yaml:"length,omitempty"`
	Seed   *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	Query  string `json:"query,omitempty" yaml:"query,omitempty"`

	// Output is a file, or a directory for glob targets. Empty writes to
	// stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	Overrides map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Error is a project file error.
type Error struct {
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Find returns the first project file in dir. An empty dir means the
// working directory.
func Find(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = cwd
	}
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
}

// Load reads, defaults, applies env overrides to and validates the project
// file at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "read failed", Err: err}
	}
	p, err := Parse(data)
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, err
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	p.Dir = abs
	return p, nil
}

// Parse decodes a project file from data. Dir is left empty.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &Error{Message: err.Error(), Err: err}
	}
	p.applyDefaults()
	if err := p.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Project) applyDefaults() {
	if p.Version == "" {
		p.Version = Version
	}
	for i := range p.Targets {
		t := &p.Targets[i]
		if t.Name == "" {
			t.Name = defaultName(t)
		}
	}
}

func defaultName(t *Target) string {
	if t.Type != "" {
		return t.Type
	}
	if t.Files != "" {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(t.Files))
		return filepath.Base(base)
	}
	base := filepath.Base(t.Schema)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Validate checks the project for errors a run would hit later.
func (p *Project) Validate() error {
	if p.Version != Version {
		return &Error{Message: fmt.Sprintf("unsupported version %q, want %q", p.Version, Version)}
	}
	if p.Log.Level != "" {
		if _, ok := logging.LookupLevel(p.Log.Level); !ok {
			return &Error{Message: fmt.Sprintf("log.level: unknown level %q", p.Log.Level)}
		}
	}
	if p.Log.Format != "" {
		if _, ok := logging.LookupFormat(p.Log.Format); !ok {
			return &Error{Message: fmt.Sprintf("log.format: unknown format %q", p.Log.Format)}
		}
	}
	if err := p.Defaults.Validate(); err != nil {
		return &Error{Message: "defaults: " + err.Error(), Err: err}
	}

	seen := make(map[string]bool, len(p.Targets))
	for i, t := range p.Targets {
		where := fmt.Sprintf("targets[%d]", i)
		if seen[t.Name] {
			return &Error{Message: fmt.Sprintf("%s: duplicate target name %q", where, t.Name)}
		}
		seen[t.Name] = true

		if (t.Schema == "") == (t.Files == "") {
			return &Error{Message: where + ": exactly one of schema or files is required"}
		}
		if t.Files != "" && !doublestar.ValidatePattern(filepath.ToSlash(t.Files)) {
			return &Error{Message: fmt.Sprintf("%s: invalid files pattern %q", where, t.Files)}
		}
		if t.Length != nil && *t.Length < 0 {
			return &Error{Message: fmt.Sprintf("%s: length must not be negative, got %d", where, *t.Length)}
		}
		if _, err := output.ParseFormat(t.Format); err != nil {
			return &Error{Message: where + ": " + err.Error(), Err: err}
		}
		if t.Kind != "" {
			if _, err := frontend.ParseKind(t.Kind); err != nil {
				return &Error{Message: where + ": " + err.Error(), Err: err}
			}
		}
	}
	return nil
}

// Synth returns the generation config for t on top of defaults.
func (t Target) Synth(defaults synth.Config) synth.Config {
	cfg := defaults
	if t.Length != nil {
		cfg.Length = *t.Length
	}
	if t.Seed != nil {
		seed := *t.Seed
		cfg.Seed = &seed
	}
	return cfg
}

// Expand resolves t against baseDir into one target per schema file,
// ordered by path. Glob targets write each file's values to
// <output>/<stem>.<format> when Output is set.
func (t Target) Expand(baseDir string) ([]Target, error) {
	if t.Schema != "" {
		out := t
		out.Schema = resolve(baseDir, t.Schema)
		if t.Output != "" {
			out.Output = resolve(baseDir, t.Output)
		}
		return []Target{out}, nil
	}

	pattern := filepath.ToSlash(resolve(baseDir, t.Files))
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("target %s: %v", t.Name, err), Err: err}
	}
	if len(matches) == 0 {
		return nil, &Error{Message: fmt.Sprintf("target %s: no files match %q", t.Name, t.Files)}
	}
	slices.Sort(matches)

	format, _ := output.ParseFormat(t.Format)
	out := make([]Target, 0, len(matches))
	for _, path := range matches {
		base := filepath.Base(path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		e := t
		e.Files = ""
		e.Schema = path
		e.Name = t.Name + "/" + stem
		if t.Output != "" {
			e.Output = filepath.Join(resolve(baseDir, t.Output), stem+"."+string(format))
		}
		out = append(out, e)
	}
	return out, nil
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Marshal encodes p as YAML.
func Marshal(p *Project) ([]byte, error) {
	return yaml.Marshal(p)
}
