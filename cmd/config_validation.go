package cmd

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.S.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// It accepts a value getter and returns nil when all configured values are valid.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateStorageConfig(get, &validationErrs)
	validateEditorConfig(get, &validationErrs)
	validateDeployConfig(get, &validationErrs)
	validateOriginsConfig(get, &validationErrs)
	validateModelsConfig(get, &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateStorageConfig validates workspace storage configuration values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateStorageConfig(get configGetter, errs *[]string) {
	validateOptionalStringNonEmpty(get, "settings.builder.db_file", errs)
}

// validateEditorConfig validates editor surface configuration values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateEditorConfig(get configGetter, errs *[]string) {
	validateOptionalPathPrefix(get, "settings.builder.editor_url", errs)
}

// validateDeployConfig validates deployment state machine configuration values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateDeployConfig(get configGetter, errs *[]string) {
	validateOptionalDuration(get, "settings.builder.deploy.revert_delay", errs)
}

// validateOriginsConfig validates the CORS origin allowlist.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateOriginsConfig(get configGetter, errs *[]string) {
	raw := get("settings.builder.allowed_origins")
	if raw == nil {
		return
	}

	origins, ok := toStringSlice(raw)
	if !ok {
		appendValidationError(errs, "settings.builder.allowed_origins must be a list of hosts")
		return
	}

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "*" {
			continue
		}
		if !isValidHost(strings.TrimPrefix(trimmed, ".")) {
			appendValidationError(errs,
				"settings.builder.allowed_origins entry %q must be a bare host", origin)
		}
	}
}

// validateModelsConfig validates the model registry overrides.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateModelsConfig(get configGetter, errs *[]string) {
	validateOptionalStringNonEmpty(get, "settings.builder.default_model", errs)

	raw := get("settings.builder.models")
	if raw == nil {
		return
	}

	models := toStringMap(raw)
	if models == nil {
		appendValidationError(errs, "settings.builder.models must be an object")
		return
	}

	for modelID, rawEntry := range models {
		entry := toStringMap(rawEntry)
		if entry == nil {
			appendValidationError(errs, "settings.builder.models.%s must be an object", modelID)
			continue
		}

		for _, field := range []string{"name", "provider"} {
			value, ok := entry[field]
			if !ok {
				continue
			}
			if text, parseErr := parseStrictString(value); parseErr != nil ||
				strings.TrimSpace(text) == "" {
				appendValidationError(errs,
					"settings.builder.models.%s.%s must be a non-empty string", modelID, field)
			}
		}
	}
}

// validateOptionalDuration validates an optionally configured duration key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalDuration(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a duration string", key)
		return
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		appendValidationError(errs, "%s must be a valid duration like '3s'", key)
		return
	}

	if parsed <= 0 {
		appendValidationError(errs, "%s must be > 0", key)
	}
}

// validateOptionalPathPrefix validates an optionally configured URL base path.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalPathPrefix(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string path", key)
		return
	}

	if !isValidBasePath(value) {
		appendValidationError(errs, "%s must be empty or start with '/'", key)
	}
}

// validateOptionalStringNonEmpty validates an optionally configured non-empty string key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return
	}

	if strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must not be empty", key)
	}
}

// parseStrictString parses a value as a strict string.
// It accepts a raw value and returns the parsed string and an error when parsing fails.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// toStringMap converts a raw configuration value to a string-keyed map.
// It accepts a raw value and returns nil when the value is not a map.
func toStringMap(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			text, err := parseStrictString(key)
			if err != nil {
				return nil
			}
			out[text] = val
		}
		return out
	default:
		return nil
	}
}

// toStringSlice converts a raw configuration value to a string slice.
// It accepts a raw value and returns whether the conversion succeeded.
func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			text, err := parseStrictString(item)
			if err != nil {
				return nil, false
			}
			out = append(out, text)
		}
		return out, true
	default:
		return nil, false
	}
}

// isValidBasePath validates a base path used for URL prefixes.
// It accepts a path string and returns whether it is empty or starts with '/'.
func isValidBasePath(path string) bool {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return true
	}
	return strings.HasPrefix(trimmed, "/")
}

// isValidHost validates a host string without scheme or path components.
// It accepts a host string and returns true when the host is syntactically acceptable.
func isValidHost(host string) bool {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "://") || strings.Contains(trimmed, "/") {
		return false
	}
	return true
}

// appendValidationError appends a formatted validation error to the collector.
// It accepts an error slice pointer, a format string, and format arguments, and has no return value.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
