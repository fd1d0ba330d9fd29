package state

import "strings"

// sensitiveKeyPatterns mark keys whose values should not be written to disk.
var sensitiveKeyPatterns = []string{
	"PASSWORD",
	"SECRET",
	"TOKEN",
	"KEY",
	"CREDENTIAL",
	"AUTH",
	"PRIVATE",
	"CERT",
	"PASSPHRASE",
}

const redactedValue = "[REDACTED]"

// Sanitize returns a copy of m with sensitive values redacted. Empty values
// are kept as-is, and keys naming a file (certfile, keyfile) keep their path.
func Sanitize(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" && isSensitiveKey(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = v
	}
	return out
}

// SanitizeCommand redacts `-p key:=value` parameters with sensitive keys.
func SanitizeCommand(cmd []string) []string {
	out := make([]string, len(cmd))
	for i, arg := range cmd {
		out[i] = arg
		if i == 0 || cmd[i-1] != "-p" {
			continue
		}
		key, value, ok := strings.Cut(arg, ":=")
		if ok && value != "''" && isSensitiveKey(key) {
			out[i] = key + ":=" + redactedValue
		}
	}
	return out
}

func isSensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	if strings.HasSuffix(upper, "FILE") || strings.HasSuffix(upper, "PATH") {
		return false
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
