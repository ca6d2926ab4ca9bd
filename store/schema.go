package store

import (
	"fmt"
	"reflect"
	"sort"
)

// ValidatorFunc decides whether value may be stored under a key.
// Returning an error wrapping ErrTypeMismatch means the value had the wrong
// shape; any other error is reported as a generic invalid setting.
// Shape checks should use the two-value type assertion and return
// ErrTypeMismatch. A failed unchecked assertion is reported the same way,
// but any other panic reaches the caller of Set.
type ValidatorFunc func(value any) (bool, error)

// SerializerFunc turns a stored value into its persisted string form.
type SerializerFunc func(value any) (string, error)

// DeserializerFunc turns a persisted string back into a candidate value.
type DeserializerFunc func(raw string) (any, error)

// Rule is the set of hooks bound to one key. Nil hooks fall back to the
// store defaults: accept anything, fmt.Sprint, keep the raw string.
type Rule struct {
	Key         string
	Type        reflect.Type
	Description string
	Validate    ValidatorFunc
	Serialize   SerializerFunc
	Deserialize DeserializerFunc
}

// Ruler is anything that can produce a Rule. Rule itself and *FieldRule[T]
// both satisfy it.
type Ruler interface {
	Rule() Rule
}

// Rule implements Ruler.
func (r Rule) Rule() Rule {
	return r
}

// Schema maps setting keys to their rules. A schema is built once, before
// any Settings uses it, and is read-only afterwards.
type Schema struct {
	name  string
	rules map[string]Rule
}

// NewSchema creates a schema holding the given rules.
// It panics if two rules share a key.
func NewSchema(name string, rules ...Ruler) *Schema {
	s := &Schema{name: name, rules: make(map[string]Rule)}
	return s.Register(rules...)
}

// Register adds rules to the schema. It should only be called while the
// schema is being defined. It will panic if a key is already registered
// or a rule has no key.
func (s *Schema) Register(rules ...Ruler) *Schema {
	for _, r := range rules {
		rule := r.Rule()
		if rule.Key == "" {
			panic(fmt.Sprintf("schema '%s': rule with empty key", s.name))
		}
		if _, exists := s.rules[rule.Key]; exists {
			panic(fmt.Sprintf("schema '%s': rule for key '%s' is already registered", s.name, rule.Key))
		}
		s.rules[rule.Key] = rule
	}
	return s
}

// Extend returns a new schema with every rule of s plus the given rules.
// s itself is not modified.
func (s *Schema) Extend(name string, rules ...Ruler) *Schema {
	child := &Schema{name: name, rules: make(map[string]Rule, len(s.rules)+len(rules))}
	for k, r := range s.rules {
		child.rules[k] = r
	}
	return child.Register(rules...)
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Lookup returns the rule bound to key.
func (s *Schema) Lookup(key string) (Rule, bool) {
	if s == nil {
		return Rule{}, false
	}
	r, ok := s.rules[key]
	return r, ok
}

// Keys returns the keys that have a rule, sorted.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.rules))
	for k := range s.rules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Schema) validator(key string) ValidatorFunc {
	r, _ := s.Lookup(key)
	return r.Validate
}

func (s *Schema) serializer(key string) SerializerFunc {
	if r, ok := s.Lookup(key); ok && r.Serialize != nil {
		return r.Serialize
	}
	return defaultSerialize
}

func (s *Schema) deserializer(key string) DeserializerFunc {
	if r, ok := s.Lookup(key); ok && r.Deserialize != nil {
		return r.Deserialize
	}
	return defaultDeserialize
}

func defaultSerialize(value any) (string, error) {
	if str, ok := value.(string); ok {
		return str, nil
	}
	return fmt.Sprint(value), nil
}

func defaultDeserialize(raw string) (any, error) {
	return raw, nil
}

// FieldRule builds a Rule for values of type T.
type FieldRule[T any] struct {
	key         string
	description string
	validate    func(T) bool
	serialize   func(T) string
	deserialize func(string) (T, error)
}

// Field starts a typed rule for key. Without further calls the rule only
// requires the value to be a T.
func Field[T any](key string) *FieldRule[T] {
	return &FieldRule[T]{key: key}
}

// Validate sets the content check run once the value is known to be a T.
func (f *FieldRule[T]) Validate(fn func(T) bool) *FieldRule[T] {
	f.validate = fn
	return f
}

// Serialize sets the persisted string form of the value.
func (f *FieldRule[T]) Serialize(fn func(T) string) *FieldRule[T] {
	f.serialize = fn
	return f
}

// Deserialize sets how a persisted string becomes a T.
func (f *FieldRule[T]) Deserialize(fn func(string) (T, error)) *FieldRule[T] {
	f.deserialize = fn
	return f
}

// Describe attaches a human-readable description, used in JSONSchema.
func (f *FieldRule[T]) Describe(description string) *FieldRule[T] {
	f.description = description
	return f
}

// Rule implements Ruler.
func (f *FieldRule[T]) Rule() Rule {
	want := reflect.TypeOf((*T)(nil)).Elem()
	rule := Rule{Key: f.key, Type: want, Description: f.description}

	check := f.validate
	rule.Validate = func(value any) (bool, error) {
		v, ok := value.(T)
		if !ok {
			return false, typeMismatch(want.String(), value)
		}
		if check == nil {
			return true, nil
		}
		return check(v), nil
	}

	if ser := f.serialize; ser != nil {
		rule.Serialize = func(value any) (string, error) {
			v, ok := value.(T)
			if !ok {
				return "", typeMismatch(want.String(), value)
			}
			return ser(v), nil
		}
	}

	if de := f.deserialize; de != nil {
		rule.Deserialize = func(raw string) (any, error) {
			v, err := de(raw)
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	}
	return rule
}
