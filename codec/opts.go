package codec

import (
	"fmt"
	"log/slog"

	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/schema"
)

// DuplicatePolicy decides which declaration of a repeated type id later
// property arrays resolve against.
type DuplicatePolicy int

const (
	KeepLast DuplicatePolicy = iota
	KeepFirst
	RejectDuplicates
)

func (p DuplicatePolicy) String() string {
	d, err := p.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (p DuplicatePolicy) MarshalText() ([]byte, error) {
	switch p {
	case KeepLast:
		return []byte("last"), nil
	case KeepFirst:
		return []byte("first"), nil
	case RejectDuplicates:
		return []byte("reject"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a duplicate policy>", int(p))
	}
}

func (p *DuplicatePolicy) UnmarshalText(d []byte) error {
	pp, ok := map[string]DuplicatePolicy{
		"last":   KeepLast,
		"first":  KeepFirst,
		"reject": RejectDuplicates,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unknown duplicate policy %q", d)
	}
	*p = pp
	return nil
}

type DecodeState struct {
	logger     *slog.Logger
	schema     *schema.Database
	dupes      DuplicatePolicy
	readerOpts []chunk.ReaderOption
}

type DecodeOption func(*DecodeState)

func WithLogger(l *slog.Logger) DecodeOption {
	return func(s *DecodeState) { s.logger = l }
}

// WithSchema canonicalizes property names and converts values to the types
// db declares.
func WithSchema(db *schema.Database) DecodeOption {
	return func(s *DecodeState) { s.schema = db }
}

func WithDuplicateTypes(p DuplicatePolicy) DecodeOption {
	return func(s *DecodeState) { s.dupes = p }
}

func WithReaderOptions(opts ...chunk.ReaderOption) DecodeOption {
	return func(s *DecodeState) { s.readerOpts = append(s.readerOpts, opts...) }
}

func newDecodeState(opts []DecodeOption) *DecodeState {
	s := &DecodeState{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

type EncodeState struct {
	logger     *slog.Logger
	schema     *schema.Database
	writerOpts []chunk.WriterOption
}

type EncodeOption func(*EncodeState)

// WithCompression selects the compressor for every chunk but END.
func WithCompression(c chunk.Compressor) EncodeOption {
	return func(s *EncodeState) {
		s.writerOpts = append(s.writerOpts, chunk.WithCompression(c))
	}
}

func WithWriterOptions(opts ...chunk.WriterOption) EncodeOption {
	return func(s *EncodeState) { s.writerOpts = append(s.writerOpts, opts...) }
}

// WithEncodeSchema writes properties under their stored names and types and
// fills missing values from schema defaults.
func WithEncodeSchema(db *schema.Database) EncodeOption {
	return func(s *EncodeState) { s.schema = db }
}

func WithEncodeLogger(l *slog.Logger) EncodeOption {
	return func(s *EncodeState) { s.logger = l }
}

func newEncodeState(opts []EncodeOption) *EncodeState {
	s := &EncodeState{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}
