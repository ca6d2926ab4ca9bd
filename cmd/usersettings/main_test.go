package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidroman0O/usersettings/store"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckArgs(t *testing.T) {
	stdout, _, err := run(t, "", "check", "method=POST", "blocked_engines=google__general,bing_general", "theme=dark")
	require.NoError(t, err)

	var saved map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &saved))
	assert.Equal(t, map[string]string{
		"method":          "POST",
		"blocked_engines": "bing_general,google__general",
		"theme":           "dark",
	}, saved)
}

func TestCheckStdin(t *testing.T) {
	stdout, _, err := run(t, `{"locale":"pt_BR","language":"en_US"}`, "check", "--stdin")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"locale": "pt_BR"`)
	assert.Contains(t, stdout, `"language": "en_US"`)

	_, _, err = run(t, `not json`, "check", "--stdin")
	assert.ErrorContains(t, err, "decode stdin")

	_, _, err = run(t, `{}`, "check", "--stdin", "method=GET")
	assert.Error(t, err)
}

func TestCheckRejects(t *testing.T) {
	stdout, _, err := run(t, "", "check", "method=SET", "locale=English")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidSettingValue)
	assert.Empty(t, stdout)

	_, _, err = run(t, "", "check", "method")
	assert.ErrorContains(t, err, "not key=value")
}

func TestCheckMetrics(t *testing.T) {
	t.Setenv("USERSETTINGS_METRICS", "prometheus")

	_, stderr, err := run(t, "", "check", "method=GET")
	require.NoError(t, err)
	assert.Contains(t, stderr, `usersettings_restores_total{result="ok",schema="user_settings"} 1`)
	assert.Contains(t, stderr, `usersettings_entries_total{direction="restored",schema="user_settings"} 1`)
}

func TestCheckOTelMetrics(t *testing.T) {
	t.Setenv("USERSETTINGS_METRICS", "otel")

	_, stderr, err := run(t, "", "check", "method=GET", "locale=English")
	require.Error(t, err)
	assert.Contains(t, stderr, "usersettings.restores{result=refused,schema=user_settings} 1")
	assert.Contains(t, stderr, "usersettings.writes{key=locale,outcome=value,schema=user_settings} 1")

	_, stderr, err = run(t, "", "check", "method=GET")
	require.NoError(t, err)
	assert.Contains(t, stderr, "usersettings.restores{result=ok,schema=user_settings} 1")
}

func TestCheckDebugLogging(t *testing.T) {
	t.Setenv("USERSETTINGS_LOG_LEVEL", "debug")
	t.Setenv("USERSETTINGS_LOG_FORMAT", "json")

	_, stderr, err := run(t, "", "check", "method=PUT")
	require.Error(t, err)
	assert.Contains(t, stderr, `"level":"DEBUG"`)
	assert.Contains(t, stderr, `"level":"WARN"`)
}

func TestBadConfig(t *testing.T) {
	t.Setenv("USERSETTINGS_METRICS", "statsd")

	_, _, err := run(t, "", "schema")
	assert.ErrorContains(t, err, "USERSETTINGS_METRICS")
}

func TestSchemaCommand(t *testing.T) {
	stdout, _, err := run(t, "", "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "user_settings", doc["title"])

	properties := doc["properties"].(map[string]any)
	for _, key := range []string{"method", "locale", "language", "blocked_engines"} {
		assert.Contains(t, properties, key)
	}
}
