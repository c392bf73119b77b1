package models

// Field is one key/value pair of a loosely-typed record, in source order.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is a loosely-typed record as produced by a dataset loader.
// Key order is the order the source supplied.
type Record []Field

// Get returns the value for key and whether the key was present.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Value returns the value for key, or "" when absent.
func (r Record) Value(key string) string {
	v, _ := r.Get(key)
	return v
}
