package usersettings

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// EngineDelimiter separates engine identifiers in the persisted form of an
// EngineSet.
const EngineDelimiter = ","

// EngineSet is a set of engine identifiers such as "google__general".
type EngineSet map[string]struct{}

// NewEngineSet builds a set from ids. Duplicates collapse.
func NewEngineSet(ids ...string) EngineSet {
	set := make(EngineSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (e EngineSet) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// Sorted returns the members in lexical order.
func (e EngineSet) Sorted() []string {
	out := make([]string, 0, len(e))
	for id := range e {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// String joins the sorted members with EngineDelimiter.
func (e EngineSet) String() string {
	return strings.Join(e.Sorted(), EngineDelimiter)
}

// ParseEngineSet is the inverse of String. An empty string is an empty set.
func ParseEngineSet(raw string) (EngineSet, error) {
	if raw == "" {
		return EngineSet{}, nil
	}
	return NewEngineSet(strings.Split(raw, EngineDelimiter)...), nil
}

// MarshalJSON encodes the set as a sorted array.
func (e EngineSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Sorted())
}

// UnmarshalJSON decodes an array of identifiers.
func (e *EngineSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*e = NewEngineSet(ids...)
	return nil
}

// JSONSchema describes the JSON encoding produced by MarshalJSON.
func (EngineSet) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Items:       &jsonschema.Schema{Type: "string", MinLength: ptr(uint64(1))},
		UniqueItems: true,
	}
}

func ptr[T any](v T) *T {
	return &v
}
