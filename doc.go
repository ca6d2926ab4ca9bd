// Package usersettings provides the shipped user settings schema.
//
// It builds on the store package: a store.Settings validated by a schema with
// four keys, each backed by a built-in rule.
//
// Core keys include:
//   - method: "GET" or "POST", how queries are submitted
//   - locale: interface locale shaped like "en" or "pt_BR"
//   - language: search language shaped like "en" or "en_US"
//   - blocked_engines: an EngineSet of engine identifiers, persisted as a
//     comma-separated list
//
// Settings round-trip through a flat map[string]string, the form a cookie jar
// carries, with SaveTo and RestoreFrom. Derived configurations add keys by
// extending Schema() rather than changing this package.
package usersettings
