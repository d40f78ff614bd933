// Package payloadfile reads the ordered payload list of a job from disk.
package payloadfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

// ErrNotStringList is returned when a JSON source does not yield a list of payloads.
var ErrNotStringList = errors.New("json payloads must be an array of strings or scalars")

// Options configures a Reader.
type Options struct {
	// Query is a JMESPath expression applied to JSON files. Empty means the
	// document itself is the payload array.
	Query string
}

// Reader loads payloads from .txt (one per line) or .json files.
type Reader struct {
	search func(data any) (any, error)
}

var _ core.PayloadReader = (*Reader)(nil)

// NewReader validates the query and returns a Reader.
func NewReader(opts Options) (*Reader, error) {
	r := &Reader{}
	if q := strings.TrimSpace(opts.Query); q != "" {
		compiled, err := jmespath.Compile(q)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "invalid payload query %q", q)
		}
		r.search = compiled.Search
	}
	return r, nil
}

// ReadPayloads returns the payloads at path in file order. Any failure is an
// io_read error naming the path.
func (r *Reader) ReadPayloads(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IORead(err, path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		out, jsonErr := r.fromJSON(data)
		if jsonErr != nil {
			return nil, apperrors.IORead(jsonErr, path)
		}
		return out, nil
	}
	return Lines(data), nil
}

// Lines splits text into lines. A trailing "\r" is stripped from each line,
// a UTF-8 byte order mark is dropped and a final empty line left by a
// terminating newline is not a payload. Interior blank lines are kept.
func Lines(data []byte) []string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(data) == 0 {
		return []string{}
	}
	text := strings.TrimSuffix(string(data), "\n")
	parts := strings.Split(text, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

func (r *Reader) fromJSON(data []byte) ([]string, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	if r.search != nil {
		res, err := r.search(doc)
		if err != nil {
			return nil, fmt.Errorf("evaluate payload query: %w", err)
		}
		doc = res
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, ErrNotStringList
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := scalarString(item)
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", ErrNotStringList
	}
}
