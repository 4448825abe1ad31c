// Package logging builds the process logger and keeps log payloads safe
// to emit.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MaxValueLogLength caps logged argument values so sampled rows or long
// SQL text cannot bloat log lines.
const MaxValueLogLength = 200

// RedactedText replaces values that must never reach the logs.
const RedactedText = "[REDACTED]"

// New builds the process logger. Production environments get JSON output
// at info level; everything else gets the human-readable development
// encoder at debug level.
func New(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	switch env {
	case "production", "prod":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

var sensitiveKeywords = []string{"password", "secret", "token", "key", "credential"}

// SanitizeArguments redacts sensitive fields and truncates long values in
// tool-call arguments before they are logged.
func SanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	result := make(map[string]any, len(args))
	for k, v := range args {
		if isSensitiveKey(k) {
			result[k] = RedactedText
			continue
		}
		if str, ok := v.(string); ok {
			result[k] = Truncate(str)
			continue
		}
		result[k] = v
	}
	return result
}

// Truncate shortens a string to MaxValueLogLength for logging.
func Truncate(s string) string {
	if len(s) <= MaxValueLogLength {
		return s
	}
	return s[:MaxValueLogLength] + "..."
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
