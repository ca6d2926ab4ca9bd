package store

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
)

// Settings is a validated key/value container bound to a Schema.
// Every value it holds passed its key's validator when it was written.
type Settings struct {
	mu       deadlock.RWMutex
	id       string
	schema   *Schema
	data     map[string]any
	logger   Logger
	recorder Recorder
}

// Option configures a Settings instance.
type Option func(*Settings)

// WithLogger sets the logger used for rejected writes and round-trip summaries.
func WithLogger(logger Logger) Option {
	return func(s *Settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the activity recorder.
func WithRecorder(recorder Recorder) Option {
	return func(s *Settings) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// New constructs an empty Settings bound to schema. A nil schema accepts
// every key unconditionally.
func New(schema *Schema, opts ...Option) *Settings {
	if schema == nil {
		schema = NewSchema("default")
	}
	s := &Settings{
		id:       uuid.NewString(),
		schema:   schema,
		data:     make(map[string]any),
		logger:   NewDefaultLogger(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the instance identifier used in log lines.
func (s *Settings) ID() string {
	return s.id
}

// Schema returns the schema the instance validates against.
func (s *Settings) Schema() *Schema {
	return s.schema
}

// Empty reports whether no value is stored.
func (s *Settings) Empty() bool {
	return s.Len() == 0
}

// Len returns the number of stored values.
func (s *Settings) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns the stored keys, sorted.
func (s *Settings) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.data)
}

// Get returns the value stored under key, or ErrUnknownSetting.
// The returned value is a copy; mutating it does not affect the store.
func (s *Settings) Get(key string) (any, error) {
	s.mu.RLock()
	v, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return deepCopy(v), nil
}

// Get retrieves the value stored under key as a T.
func Get[T any](s *Settings, key string) (T, error) {
	var zero T
	v, err := s.Get(key)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, typeMismatch(reflect.TypeOf((*T)(nil)).Elem().String(), v)
	}
	return out, nil
}

// Set validates value against the rule bound to key and stores it.
// Keys without a validator accept any value. On error the store is unchanged
// and the error matches ErrInvalidSetting.
func (s *Settings) Set(key string, value any) error {
	if err := s.check(key, value); err != nil {
		s.rejected(key, err)
		return err
	}

	s.mu.Lock()
	s.data[key] = deepCopy(value)
	s.mu.Unlock()

	s.recorder.Accepted(s.schema.name, key)
	return nil
}

// SaveTo writes the serialized form of every stored value into target.
// target is only modified if every value serialized cleanly.
func (s *Settings) SaveTo(target map[string]string) error {
	if target == nil {
		return errors.New("target map cannot be nil")
	}

	snapshot, err := s.serializeAll()
	if err != nil {
		return err
	}
	for k, v := range snapshot {
		target[k] = v
	}

	s.logger.Debug("settings %s: saved %d entries", s.id, len(snapshot))
	s.recorder.Saved(s.schema.name, len(snapshot))
	return nil
}

// RestoreFrom decodes and validates every entry of source, then stores them.
// The restore is all-or-nothing: if any entry is rejected, nothing is
// written and the returned error joins one *InvalidSettingError per rejected
// key, in key order. Keys already stored but absent from source are kept.
func (s *Settings) RestoreFrom(source map[string]string) error {
	staged := make(map[string]any, len(source))
	var errs []error

	for _, key := range sortedKeys(source) {
		value, err := s.decode(key, source[key])
		if err == nil {
			err = s.check(key, value)
		}
		if err != nil {
			s.rejected(key, err)
			errs = append(errs, err)
			continue
		}
		staged[key] = value
	}

	if len(errs) > 0 {
		s.logger.Warn("settings %s: restore refused, %d of %d entries invalid", s.id, len(errs), len(source))
		s.recorder.Restored(s.schema.name, 0, true)
		return errors.Join(errs...)
	}

	s.mu.Lock()
	for k, v := range staged {
		s.data[k] = v
	}
	s.mu.Unlock()

	s.logger.Debug("settings %s: restored %d entries", s.id, len(staged))
	s.recorder.Restored(s.schema.name, len(staged), false)
	return nil
}

func (s *Settings) check(key string, value any) error {
	validate := s.schema.validator(key)
	if validate == nil {
		return nil
	}
	ok, err := runValidator(validate, value)
	return classify(key, value, ok, err)
}

// runValidator turns a failed type assertion inside validate into
// ErrTypeMismatch. Any other panic propagates.
func runValidator(validate ValidatorFunc, value any) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var assertion *runtime.TypeAssertionError
			if e, isErr := r.(error); isErr && errors.As(e, &assertion) {
				ok, err = false, fmt.Errorf("%w: %v", ErrTypeMismatch, assertion)
				return
			}
			panic(r)
		}
	}()
	return validate(value)
}

func (s *Settings) decode(key, raw string) (any, error) {
	value, err := s.schema.deserializer(key)(raw)
	if err != nil {
		return nil, &InvalidSettingError{Key: key, Value: raw, Reason: ReasonType, Err: fmt.Errorf("deserialize: %w", err)}
	}
	return value, nil
}

func (s *Settings) serializeAll() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.data))
	for key, value := range s.data {
		raw, err := s.schema.serializer(key)(value)
		if err != nil {
			return nil, fmt.Errorf("serialize %q: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

func (s *Settings) rejected(key string, err error) {
	reason := ReasonOther
	var invalid *InvalidSettingError
	if errors.As(err, &invalid) {
		reason = invalid.Reason
	}
	s.logger.Debug("settings %s: rejected %q: %v", s.id, key, err)
	s.recorder.Rejected(s.schema.name, key, reason)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
