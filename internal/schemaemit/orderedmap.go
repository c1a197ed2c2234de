package schemaemit

import "bytes"

// orderedMap is a JSON object that marshals its keys in insertion order.
// encoding/json's native map support randomizes key order, which would
// break the emitter's deterministic-output guarantee; a hand-authored
// ordered container sidesteps that without introducing a generic
// ordered-map dependency for a handful of fixed schema shapes.
type orderedMap struct {
	keys   []string
	values map[string]any
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: make(map[string]any)}
}

// set inserts key/value, appending key to the order on first use and
// overwriting the value in place on a repeat set.
func (m *orderedMap) set(key string, value any) *orderedMap {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

func (m *orderedMap) has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalJSON(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
