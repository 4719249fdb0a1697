package core

import (
	"bytes"
	"encoding/json"
	"iter"
)

// Record is a string-keyed container that remembers insertion order.
// Keys are unique; setting an existing key replaces its value in place.
type Record[V any] struct {
	keys   []string
	values map[string]V
}

// Row is a record holding one database row, keyed by column name.
type Row = Record[any]

// NewRecord creates an empty record with room for size entries.
func NewRecord[V any](size int) *Record[V] {
	return &Record[V]{
		keys:   make([]string, 0, size),
		values: make(map[string]V, size),
	}
}

// RecordOf builds a record from alternating key/value pairs given as
// parallel slices. Later duplicates overwrite earlier ones.
func RecordOf[V any](keys []string, values []V) *Record[V] {
	r := NewRecord[V](len(keys))
	for i, k := range keys {
		var v V
		if i < len(values) {
			v = values[i]
		}
		r.Set(k, v)
	}
	return r
}

// Set stores v under key.
func (r *Record[V]) Set(key string, v V) {
	if r.values == nil {
		r.values = make(map[string]V)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Record[V]) Get(key string) (V, bool) {
	if r == nil {
		var zero V
		return zero, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value stored under key, or the zero value.
func (r *Record[V]) Value(key string) V {
	if r == nil {
		var zero V
		return zero
	}
	return r.values[key]
}

// Has reports whether key is present.
func (r *Record[V]) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.values[key]
	return ok
}

// Len returns the number of entries.
func (r *Record[V]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns a copy of the keys in insertion order.
func (r *Record[V]) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All iterates entries in insertion order.
func (r *Record[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if r == nil {
			return
		}
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Map returns the entries as a plain map. Order is lost.
func (r *Record[V]) Map() map[string]V {
	out := make(map[string]V, r.Len())
	for k, v := range r.All() {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the record as a JSON object with keys in insertion order.
func (r *Record[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range r.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
