package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/search"
)

// DefaultEncoding is the encoding of the official export.
const DefaultEncoding = "windows-1251"

// Stats summarizes one load.
type Stats struct {
	Lines       int           // lines visited, blank ones included
	Pairs       int           // pairs extracted, duplicates included
	FailedLines int           // lines that reported an error; their valid pairs are still kept
	Records     int           // distinct ids in the resulting database
	Duration    time.Duration // wall-clock load time
}

// LineError describes a line that reported an error while parsing.
type LineError struct {
	Line int    // 1-based line number
	Text string // the raw line
	Err  error
}

func (e LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e LineError) Unwrap() error { return e.Err }

// ----------------------------------------------------------------------------
// Options

type Option func(*options)

type options struct {
	delim    rune
	minRunes int
	logger   *zerolog.Logger
}

func defaultOptions() options {
	return options{
		delim:    DefaultDelimiter,
		minRunes: DefaultMinDescriptionRunes,
	}
}

// WithDelimiter overrides the field delimiter.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		if r != 0 && r != '"' {
			o.delim = r
		}
	}
}

// WithMinDescriptionRunes sets the shortest accepted description.
func WithMinDescriptionRunes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minRunes = n
		}
	}
}

// WithLogger routes per-line warnings and the load summary to l instead of
// the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// ----------------------------------------------------------------------------
// Loading

// LoadFile reads the export at path, decodes it from the encoding label
// (e.g. "windows-1251", "cp1251", "utf-8") and loads it.
//
// A missing or unreadable file fails the load with ErrSourceUnavailable.
func LoadFile(ctx context.Context, path, encoding string, opts ...Option) (*search.Database, Stats, []LineError, error) {
	if strings.TrimSpace(encoding) == "" {
		encoding = DefaultEncoding
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return search.NewBuilder().Build(), Stats{}, nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}

	f, err := os.Open(path)
	if err != nil {
		return search.NewBuilder().Build(), Stats{}, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	return LoadDatabase(ctx, transform.NewReader(f, enc.NewDecoder()), opts...)
}

// LoadString loads the database from already decoded source text.
func LoadString(ctx context.Context, text string, opts ...Option) (*search.Database, Stats, []LineError, error) {
	return LoadDatabase(ctx, strings.NewReader(text), opts...)
}

// LoadDatabase consumes r fully and builds the database line by line.
//
// Each line is normalized, split and scanned for pairs on its own; a line
// that fails is recorded in the returned []LineError. Pairs found on such a
// line next to an unusable id are still kept; a line that panicked keeps
// nothing. Pairs are inserted in file order so the last occurrence of an id
// wins.
//
// Only a read error or a cancelled ctx fails the load; the returned database
// is then empty.
func LoadDatabase(ctx context.Context, r io.Reader, opts ...Option) (*search.Database, Stats, []LineError, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	lg := log.Logger
	if o.logger != nil {
		lg = *o.logger
	}

	ctx, span := otel.Tracer("ingest").Start(ctx, "LoadDatabase")
	defer span.End()

	start := time.Now()
	raw, err := io.ReadAll(r)
	if err != nil {
		span.RecordError(err)
		return search.NewBuilder().Build(), Stats{}, nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	var (
		b     = search.NewBuilder()
		st    Stats
		fails []LineError
	)
	for n, line := range splitLines(string(raw)) {
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return search.NewBuilder().Build(), Stats{}, nil, err
			}
		}
		st.Lines++

		recs, err := parseLine(line, &o)
		if err != nil {
			le := LineError{Line: n + 1, Text: line, Err: err}
			fails = append(fails, le)
			lg.Warn().Int("line", le.Line).Int("kept_pairs", len(recs)).Err(err).Msg("malformed line")
		}
		for _, rec := range recs {
			b.Put(rec.ID, rec.Description)
			st.Pairs++
		}
	}

	db := b.Build()
	st.FailedLines = len(fails)
	st.Records = db.Len()
	st.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("ingest.lines", st.Lines),
		attribute.Int("ingest.pairs", st.Pairs),
		attribute.Int("ingest.failed_lines", st.FailedLines),
		attribute.Int("ingest.records", st.Records),
	)
	lg.Info().
		Int("lines", st.Lines).
		Int("pairs", st.Pairs).
		Int("failed_lines", st.FailedLines).
		Int("records", st.Records).
		Dur("took", st.Duration).
		Msg("database loaded")

	return db, st, fails, nil
}

// parseLine runs the per-line pipeline. A panic inside it is converted into
// an error so one pathological line cannot take down the load.
func parseLine(line string, o *options) (recs []domain.Record, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			recs = nil
			err = fmt.Errorf("%w: %v", ErrMalformedLine, rec)
		}
	}()
	fields := SplitFields(NormalizeLine(line), o.delim)
	if len(fields) == 0 {
		return nil, nil
	}
	return ExtractPairs(fields, o.minRunes)
}

// splitLines breaks text at the same boundaries as Python's
// str.splitlines, which the export tooling uses: LF, CR, CRLF, VT, FF, the
// ASCII file/group/record separators, NEL, U+2028 and U+2029. A trailing
// break does not produce an extra empty line.
func splitLines(text string) []string {
	var (
		out   []string
		start int
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		out = append(out, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
