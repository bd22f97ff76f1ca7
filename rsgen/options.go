package rsgen

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/schema"
)

var optionDecoder = schema.NewDecoder()

func init() {
	optionDecoder.IgnoreUnknownKeys(false)
}

// Options are the generator settings that can be given as an option string,
// `key=value` pairs separated by commas:
//
//	comments=false,file=monaco.rs,map=monaco.Thenable:Promise,reserved=default
//
// Repeating a key appends to list options.
type Options struct {
	// Comments toggles comment emission. Unset leaves the default.
	Comments *bool `schema:"comments"`

	// File is the generated file name.
	File string `schema:"file"`

	// Map holds type mappings as "TypeScriptName:RustName".
	Map []string `schema:"map"`

	// Reserved holds additional reserved words.
	Reserved []string `schema:"reserved"`

	// Strict fails on syntax errors.
	Strict bool `schema:"strict"`
}

// ParseOptions decodes an option string. Unknown keys are an error.
func ParseOptions(s string) (Options, error) {
	var opts Options
	values := url.Values{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return opts, errors.Mark(errors.Newf("option %q: expected key=value", pair), ErrInvalidConfig)
		}
		values.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := optionDecoder.Decode(&opts, values); err != nil {
		return opts, errors.Mark(errors.Wrap(err, "decode options"), ErrInvalidConfig)
	}
	for _, m := range opts.Map {
		if from, to, ok := strings.Cut(m, ":"); !ok || from == "" || to == "" {
			return opts, errors.Mark(errors.Newf("option map=%s: expected TypeScriptName:RustName", m), ErrInvalidConfig)
		}
	}
	return opts, nil
}

// Apply copies the options that were set onto cfg.
func (o Options) Apply(cfg *Config) {
	if o.Comments != nil {
		emit := *o.Comments
		cfg.EmitComments = &emit
	}
	if o.File != "" {
		cfg.OutFile = o.File
	}
	for _, m := range o.Map {
		from, to, ok := strings.Cut(m, ":")
		if !ok {
			continue
		}
		if cfg.TypeMappings == nil {
			cfg.TypeMappings = make(map[string]string)
		}
		cfg.TypeMappings[from] = to
	}
	cfg.ReservedWords = append(cfg.ReservedWords, o.Reserved...)
	if o.Strict {
		cfg.Strict = true
	}
}
