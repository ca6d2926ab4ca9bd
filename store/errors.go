package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSetting is returned by Get when no value is stored under the key.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrInvalidSetting matches every rejected write.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrInvalidSettingValue matches writes whose value had the right shape
	// but was refused by the key's validator.
	ErrInvalidSettingValue = errors.New("invalid setting value")

	// ErrInvalidSettingType matches writes whose value had the wrong shape
	// for the key's validator to evaluate.
	ErrInvalidSettingType = errors.New("invalid setting type")

	// ErrTypeMismatch is returned by validators, deserializers and typed reads
	// when a value is not of the expected Go type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Reason classifies why a write was rejected.
type Reason int

const (
	// ReasonOther is any validator failure that is neither a refusal nor a type mismatch.
	ReasonOther Reason = iota
	// ReasonValue means the validator ran and returned false.
	ReasonValue
	// ReasonType means the validator could not evaluate the value's shape.
	ReasonType
)

func (r Reason) String() string {
	switch r {
	case ReasonValue:
		return "value"
	case ReasonType:
		return "type"
	default:
		return "other"
	}
}

// InvalidSettingError describes a rejected write for a single key.
type InvalidSettingError struct {
	Key    string
	Value  any
	Reason Reason
	Err    error
}

func (e *InvalidSettingError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("invalid setting %q (%s): %v", e.Key, e.Reason, e.Err)
	case e.Reason == ReasonValue:
		return fmt.Sprintf("invalid setting %q: value %v rejected", e.Key, e.Value)
	default:
		return fmt.Sprintf("invalid setting %q (%s)", e.Key, e.Reason)
	}
}

// Unwrap returns the validator's cause, if any.
func (e *InvalidSettingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidSetting or the sentinel matching e.Reason.
func (e *InvalidSettingError) Is(target error) bool {
	switch target {
	case ErrInvalidSetting:
		return true
	case ErrInvalidSettingValue:
		return e.Reason == ReasonValue
	case ErrInvalidSettingType:
		return e.Reason == ReasonType
	}
	return false
}

// classify turns a validator result into the error Set reports, or nil when
// the value was accepted.
func classify(key string, value any, ok bool, err error) error {
	if err != nil {
		reason := ReasonOther
		if errors.Is(err, ErrTypeMismatch) {
			reason = ReasonType
		}
		return &InvalidSettingError{Key: key, Value: value, Reason: reason, Err: err}
	}
	if !ok {
		return &InvalidSettingError{Key: key, Value: value, Reason: ReasonValue}
	}
	return nil
}

func typeMismatch(want string, got any) error {
	return fmt.Errorf("%w: wanted %s, got %T", ErrTypeMismatch, want, got)
}
