package pty

import (
	"os"
	"strings"
)

// deniedNames are never forwarded to the child unless explicitly
// overridden by the caller.
var deniedNames = map[string]struct{}{
	"SSH_AUTH_SOCK":         {},
	"SSH_AGENT_PID":         {},
	"GPG_AGENT_INFO":        {},
	"AWS_SECRET_ACCESS_KEY": {},
	"AWS_SESSION_TOKEN":     {},
	"GITHUB_TOKEN":          {},
	"ANTHROPIC_API_KEY":     {},
	"OPENAI_API_KEY":        {},
	"CLAUDE_API_KEY":        {},
	"HF_TOKEN":              {},
	"HUGGINGFACE_TOKEN":     {},
}

// Sensitive reports whether an environment variable name looks like it
// carries a secret.
func Sensitive(name string) bool {
	if _, ok := deniedNames[name]; ok {
		return true
	}

	upper := strings.ToUpper(name)
	return strings.Contains(upper, "SECRET") ||
		strings.Contains(upper, "PASSWORD") ||
		strings.Contains(upper, "CREDENTIAL") ||
		strings.Contains(upper, "PRIVATE_KEY") ||
		(strings.Contains(upper, "API") && strings.Contains(upper, "KEY")) ||
		(strings.Contains(upper, "AUTH") && strings.Contains(upper, "TOKEN"))
}

// FilterEnv builds a child environment from environ with sensitive names
// removed, TERM set to term, and overrides applied last. Overrides win
// over everything, including the deny-list and TERM.
func FilterEnv(environ []string, overrides map[string]string, term string) []string {
	env := make([]string, 0, len(environ)+len(overrides)+1)
	for _, kv := range environ {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || Sensitive(name) {
			continue
		}
		env = append(env, kv)
	}

	// exec.Cmd resolves duplicate keys to the last occurrence.
	env = append(env, "TERM="+term)
	for key, value := range overrides {
		env = append(env, key+"="+value)
	}
	return env
}

// BuildEnv filters the ambient process environment.
func BuildEnv(overrides map[string]string, term string) []string {
	return FilterEnv(os.Environ(), overrides, term)
}
