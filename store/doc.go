// Package store provides a validated key-value settings container.
//
// A Settings instance holds values of any Go type under string keys. Every
// write goes through the rule bound to the key in the instance's Schema, so a
// value that fails its own rule can never be observed. Keys without a rule
// are accepted as-is, which keeps persisted settings from newer schemas
// readable by older ones.
//
// Rules are registered explicitly, once, when a schema is defined:
//
//	schema := store.NewSchema("profile",
//		store.Field[int]("age").
//			Validate(func(v int) bool { return v >= 0 && v <= 99 }).
//			Deserialize(strconv.Atoi),
//	)
//
// A derived schema adds keys with Extend without touching its parent.
//
// Round-tripping:
//
//   - SaveTo(): writes every value into a flat map[string]string using the
//     key's serializer, or fmt.Sprint when none is registered
//   - RestoreFrom(): reads a flat map back, decoding each string with the
//     key's deserializer (the raw string when none is registered) and
//     validating it exactly like Set
//
// Rejected writes return an *InvalidSettingError that matches
// ErrInvalidSetting and, depending on why the validator refused the value,
// ErrInvalidSettingValue or ErrInvalidSettingType.
package store
