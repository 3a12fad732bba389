package pty

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func envMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if name, value, ok := strings.Cut(kv, "="); ok {
			m[name] = value
		}
	}
	return m
}

func TestSensitiveNames(t *testing.T) {
	sensitive := []string{
		"AWS_SECRET_ACCESS_KEY",
		"GITHUB_TOKEN",
		"SSH_AUTH_SOCK",
		"MY_SECRET_VALUE",
		"DATABASE_PASSWORD",
		"PRIVATE_KEY_PATH",
		"MY_API_KEY",
		"OAUTH_TOKEN",
		"gcloud_credentials",
	}
	for _, name := range sensitive {
		assert.True(t, Sensitive(name), name)
	}

	safe := []string{"HOME", "PATH", "USER", "SHELL", "TERM", "LANG", "EDITOR"}
	for _, name := range safe {
		assert.False(t, Sensitive(name), name)
	}
}

func TestFilterEnv(t *testing.T) {
	environ := []string{
		"HOME=/home/user",
		"PATH=/usr/bin:/bin",
		"TERM=dumb",
		"GITHUB_TOKEN=tok123",
		"MY_SECRET=shh",
		"malformed",
	}

	env := envMap(FilterEnv(environ, map[string]string{"MY_VAR": "1"}, "xterm-256color"))

	assert.Equal(t, "/home/user", env["HOME"])
	assert.Equal(t, "/usr/bin:/bin", env["PATH"])
	assert.Equal(t, "xterm-256color", env["TERM"])
	assert.Equal(t, "1", env["MY_VAR"])
	assert.NotContains(t, env, "GITHUB_TOKEN")
	assert.NotContains(t, env, "MY_SECRET")
}

func TestFilterEnvOverridesWin(t *testing.T) {
	environ := []string{"LANG=C"}
	overrides := map[string]string{
		"TERM":         "vt100",
		"GITHUB_TOKEN": "explicitly-allowed",
	}

	env := envMap(FilterEnv(environ, overrides, "xterm"))

	assert.Equal(t, "vt100", env["TERM"])
	assert.Equal(t, "explicitly-allowed", env["GITHUB_TOKEN"])
	assert.Equal(t, "C", env["LANG"])
}

func TestFilterEnvAlwaysSetsTerm(t *testing.T) {
	env := envMap(FilterEnv(nil, nil, "xterm-256color"))

	assert.Equal(t, "xterm-256color", env["TERM"])
}
