package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aflpredictions/predictions-api/internal/logic"
)

type memoryDoc struct {
	raw    json.RawMessage
	fields map[string]any
}

// MemoryStore evaluates predicates in process over a fixed document set
type MemoryStore struct {
	docs []memoryDoc
}

func NewMemoryStore(docs []json.RawMessage) (*MemoryStore, error) {
	s := &MemoryStore{docs: make([]memoryDoc, 0, len(docs))}
	for i, raw := range docs {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		s.docs = append(s.docs, memoryDoc{raw: raw, fields: fields})
	}
	return s, nil
}

// LoadMemoryStore reads a JSON array of documents from path
func LoadMemoryStore(path string) (*MemoryStore, error) {
	if path == "" {
		return nil, ErrNotConfigured
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return NewMemoryStore(docs)
}

func (s *MemoryStore) Query(ctx context.Context, p logic.Predicate) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []json.RawMessage
	for _, d := range s.docs {
		if matchesAll(d.fields, p.Clauses) {
			out = append(out, d.raw)
		}
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Backend() string { return DriverMemory }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func matchesAll(fields map[string]any, clauses []logic.Clause) bool {
	for _, c := range clauses {
		if !matches(fields[c.Field], c) {
			return false
		}
	}
	return true
}

// matches compares with the same type strictness as the real stores
func matches(got any, c logic.Clause) bool {
	switch c.Op {
	case logic.OpEqual:
		switch want := c.Value.(type) {
		case string:
			s, ok := got.(string)
			return ok && s == want
		case int64:
			f, ok := got.(float64)
			return ok && f == float64(want)
		}
	case logic.OpStartsWith:
		s, ok := got.(string)
		prefix, _ := c.Value.(string)
		return ok && strings.HasPrefix(s, prefix)
	}
	return false
}
