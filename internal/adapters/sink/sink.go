// Package sink writes ranked results in the supported output formats.
package sink

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"go.yaml.in/yaml/v3"

	"github.com/okian/decathlon/internal/domain/catalog"
	"github.com/okian/decathlon/internal/domain/types"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCBOR  Format = "cbor"
	FormatCSV   Format = "csv"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

const yamlIndent = 2

// Sink accepts the final ordered result set.
type Sink interface {
	Write(ctx context.Context, entries []types.Entry) error
}

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONL, FormatYAML, FormatCBOR, FormatCSV}
}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// New returns a sink encoding to w.
func New(format Format, w io.Writer) (Sink, error) {
	switch format {
	case FormatJSON:
		return encoderSink{w: w, encode: writeJSON}, nil
	case FormatJSONL:
		return encoderSink{w: w, encode: writeJSONL}, nil
	case FormatYAML:
		return encoderSink{w: w, encode: writeYAML}, nil
	case FormatCBOR:
		return encoderSink{w: w, encode: writeCBOR}, nil
	case FormatCSV:
		return encoderSink{w: w, encode: writeCSV}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Create opens path for writing ("-" selects stdout) and returns a sink over
// it. The closer must be closed after Write.
func Create(path string, format Format) (Sink, io.Closer, error) {
	var (
		w      io.Writer
		closer io.Closer = nopCloser{}
	)
	if path == "" || path == Stdout {
		w = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrCreate, err)
		}
		w, closer = f, f
	}
	s, err := New(format, w)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return s, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type encoderSink struct {
	w      io.Writer
	encode func(io.Writer, []types.Entry) error
}

func (s encoderSink) Write(ctx context.Context, entries []types.Entry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	if err := s.encode(s.w, entries); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func writeJSON(w io.Writer, entries []types.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeJSONL(w io.Writer, entries []types.Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, entries []types.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}

func writeCBOR(w io.Writer, entries []types.Entry) error {
	return cbor.NewEncoder(w).Encode(entries)
}

// writeCSV emits one row per entry: place, name, score, then the raw value
// of each event in catalog order (empty when absent).
func writeCSV(w io.Writer, entries []types.Entry) error {
	events := catalog.Default().Names()
	cw := csv.NewWriter(w)

	header := append([]string{"place", "name", "score"}, events...)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, e := range entries {
		clear(row)
		row[0] = e.Place
		row[1] = e.Name
		row[2] = strconv.FormatFloat(e.Score, 'f', -1, 64)
		for _, ev := range e.Events {
			for i, name := range events {
				if ev.Event == name {
					row[3+i] = ev.Raw
				}
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
