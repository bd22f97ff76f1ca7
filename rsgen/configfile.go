package rsgen

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of Config.
//
//	input: monaco.d.ts
//	out_dir: src
//	out_file: monaco.rs
//	comments: false
//	type_mappings:
//	  monaco.Thenable: Promise
//	reserved_words: [default]
type FileConfig struct {
	Input         string            `yaml:"input"`
	OutDir        string            `yaml:"out_dir"`
	OutFile       string            `yaml:"out_file"`
	Comments      *bool             `yaml:"comments"`
	TypeMappings  map[string]string `yaml:"type_mappings"`
	ReservedWords []string          `yaml:"reserved_words"`
	Frontmatter   string            `yaml:"frontmatter"`
	Strict        bool              `yaml:"strict"`
}

// LoadConfigFile reads a YAML configuration file. Relative input and output
// paths are resolved against the directory containing the file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Mark(errors.Wrapf(err, "parse config file %s", path), ErrInvalidConfig)
	}
	return fc.Config(filepath.Dir(path)), nil
}

// Config converts fc to a Config, resolving relative paths against base.
func (fc *FileConfig) Config(base string) *Config {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	return &Config{
		Input:         resolve(fc.Input),
		OutDir:        resolve(fc.OutDir),
		OutFile:       fc.OutFile,
		EmitComments:  fc.Comments,
		TypeMappings:  fc.TypeMappings,
		ReservedWords: fc.ReservedWords,
		Frontmatter:   fc.Frontmatter,
		Strict:        fc.Strict,
	}
}
