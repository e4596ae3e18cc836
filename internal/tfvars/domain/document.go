package domain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/allisson/tfvars-kms/internal/errors"
)

// maxLineSize bounds a single configuration line.
const maxLineSize = 1024 * 1024

// Line is a single line of a configuration document.
//
// Passthrough lines (comments and blanks) only carry Raw. Entry lines also carry the
// trimmed Key and the trimmed raw Value, quotes included.
type Line struct {
	Raw   string
	Key   string
	Value string
	Entry bool
}

// Document is a parsed key = value configuration file.
//
// A Document is never modified after it is loaded; rewriting produces new lines.
type Document struct {
	lines  []Line
	values map[string]string
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a configuration document from r.
//
// Lines starting with "#" and blank lines are kept verbatim. Every other line is split
// once on the first "=" and both sides are trimmed. When a key appears more than once
// the last value wins for lookups.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{values: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			doc.lines = append(doc.lines, Line{Raw: raw})
			continue
		}

		key, value, found := strings.Cut(raw, "=")
		if !found {
			return nil, errors.Wrapf(ErrMalformedLine, "line %d", lineNo)
		}

		line := Line{
			Raw:   raw,
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
			Entry: true,
		}
		doc.lines = append(doc.lines, line)
		doc.values[line.Key] = line.Value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	return doc, nil
}

// Lines returns a copy of the document lines in file order.
func (d *Document) Lines() []Line {
	lines := make([]Line, len(d.lines))
	copy(lines, d.lines)
	return lines
}

// Get returns the raw value for key, quotes included.
func (d *Document) Get(key string) (string, bool) {
	value, ok := d.values[key]
	return value, ok
}

// Value returns the value for key decoded by Unquote, or "" when the
// key is absent.
func (d *Document) Value(key string) string {
	value, ok := d.values[key]
	if !ok {
		return ""
	}
	return Unquote(value)
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// IsEncrypted reports whether the document already carries a non-empty kms_cryptokey_id.
func (d *Document) IsEncrypted() bool {
	return d.Value(FieldKMSCryptoKeyID) != ""
}

// Unquote decodes a double-quoted literal, escapes included, so `"a\\b\"c"` yields a\b"c.
// A value that is not a valid quoted literal only loses its surrounding quotes, and an
// unquoted value is returned as is.
func Unquote(value string) string {
	if len(value) < 2 || !strings.HasPrefix(value, `"`) || !strings.HasSuffix(value, `"`) {
		return value
	}
	if decoded, err := strconv.Unquote(value); err == nil {
		return decoded
	}
	return value[1 : len(value)-1]
}
