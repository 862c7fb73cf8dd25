// Package redaction masks credentials before they reach log output. Command
// lines routinely carry tokens pasted by users (--token=..., api_key=...),
// and log files outlive sessions.
package redaction

import (
	"regexp"
	"sync"
)

const replacement = "[REDACTED]"

var (
	mu      sync.RWMutex
	enabled = true
)

var patterns = []*regexp.Regexp{
	// key=value style credentials on command lines and in config dumps
	regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|passwd)\s*[=:]\s*['"]?\S+['"]?`),
	// bearer headers
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_\-.]{16,}`),
	// provider key formats
	regexp.MustCompile(`sk-[a-zA-Z0-9\-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`),
}

// SetEnabled toggles redaction globally. Tests that assert on exact log
// content may turn it off.
func SetEnabled(on bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = on
}

// Redact masks credential-shaped substrings in s.
func Redact(s string) string {
	mu.RLock()
	on := enabled
	mu.RUnlock()
	if !on || s == "" {
		return s
	}
	for _, re := range patterns {
		s = re.ReplaceAllString(s, replacement)
	}
	return s
}

// RedactFields masks credential-shaped values in a log field map. String
// values are redacted in place; other types pass through.
func RedactFields(fields map[string]any) map[string]any {
	mu.RLock()
	on := enabled
	mu.RUnlock()
	if !on || len(fields) == 0 {
		return fields
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = Redact(s)
		} else {
			out[k] = v
		}
	}
	return out
}
