package value

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Map is a string-keyed collection of values that remembers insertion order.
// Order is irrelevant to equality but is preserved when serializing statement
// parameters, which keeps query traces deterministic.
type Map struct {
	keys    []string
	entries map[string]Value
}

func (*Map) isValue() {}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// Set inserts or replaces the value for k. A replaced key keeps its original
// position.
func (m *Map) Set(k string, v Value) {
	if _, ok := m.entries[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.entries[k] = v
}

// Get returns the value for k.
func (m *Map) Get(k string) (Value, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// Delete removes k.
func (m *Map) Delete(k string) {
	if _, ok := m.entries[k]; !ok {
		return
	}
	delete(m.entries, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Native returns the map in wire-JSON form. Go maps do not hold order; use
// MarshalJSON where order matters.
func (m *Map) Native() interface{} {
	out := make(map[string]interface{}, len(m.keys))
	for k, v := range m.entries {
		out[k] = v.Native()
	}
	return out
}

// MarshalJSON serializes entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteString("{")
	for i, k := range m.keys {
		if i > 0 {
			buffer.WriteString(",")
		}
		kj, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buffer.Write(kj)
		buffer.WriteString(":")
		vj, err := json.Marshal(m.entries[k].Native())
		if err != nil {
			return nil, err
		}
		buffer.Write(vj)
	}
	buffer.WriteString("}")
	return buffer.Bytes(), nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
