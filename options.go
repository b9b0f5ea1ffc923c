package partgraph

import (
	"bytes"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/partgraph/pkg/dispatch"
)

// Options configures a decode session.
type Options struct {
	// Version is the declared format version of the input. Handlers gate
	// version dependent fields on it.
	Version dispatch.Version `yaml:"version"`
	// StrictFrames makes a block-size mismatch fail the record or segment.
	// When false mismatches are recorded and decoding continues.
	StrictFrames bool `yaml:"strict_frames"`
	// Concurrency bounds DecodeMany. Zero or less means one input at a time.
	Concurrency int `yaml:"concurrency"`
	// GraphName names the session graph, the namespace of resolved node ids.
	GraphName string `yaml:"graph"`

	Logger *slog.Logger `yaml:"-"`
}

// Option adjusts Options.
type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		Version:      2019,
		StrictFrames: true,
		Concurrency:  1,
		GraphName:    "segment",
	}
}

func WithVersion(v dispatch.Version) Option { return func(o *Options) { o.Version = v } }
func WithStrictFrames(b bool) Option        { return func(o *Options) { o.StrictFrames = b } }
func WithConcurrency(n int) Option          { return func(o *Options) { o.Concurrency = n } }
func WithGraphName(name string) Option      { return func(o *Options) { o.GraphName = name } }
func WithLogger(l *slog.Logger) Option      { return func(o *Options) { o.Logger = l } }

// WithOptions replaces every setting with o. Later options still apply.
func WithOptions(o Options) Option { return func(dst *Options) { *dst = o } }

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.GraphName == "" {
		o.GraphName = "segment"
	}
	return o
}

// ParseOptions reads YAML options on top of the defaults. Unknown keys are an
// error.
func ParseOptions(r io.Reader) (Options, error) {
	o := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, errors.Wrap(err, "parse options")
	}
	return o, nil
}

// LoadOptions reads YAML options from path.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(err, "load options")
	}
	return ParseOptions(bytes.NewReader(data))
}
