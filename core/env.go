package core

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// SecretFilePrefix marks an environment variable value as an indirection:
// the remainder of the value is a filesystem path whose trimmed contents
// replace the value. This keeps secrets out of the process environment.
const SecretFilePrefix = "file://"

type envOptions struct {
	defaultValue string
	hasDefault   bool
	required     bool
	secretFile   string
}

// EnvOption configures a single GetEnv lookup
type EnvOption func(*envOptions)

// Required makes GetEnv fail when the variable is unset and no
// fallback (default or secret file) produced a value.
func Required() EnvOption {
	return func(o *envOptions) {
		o.required = true
	}
}

// WithDefault supplies a fallback value for an unset variable
func WithDefault(value string) EnvOption {
	return func(o *envOptions) {
		o.defaultValue = value
		o.hasDefault = true
	}
}

// FromFile supplies a secret file read when the variable is unset.
// The file is subject to the same empty/unreadable checks as a
// file:// indirection.
func FromFile(path string) EnvOption {
	return func(o *envOptions) {
		o.secretFile = path
	}
}

// GetEnv reads an environment variable with optional file:// secret
// indirection and required/default semantics.
//
// Resolution order for an unset variable: secret file (if configured),
// then default, then failure when Required() was given, otherwise an
// empty string. A set variable whose value starts with file:// is
// resolved through the referenced file instead.
func GetEnv(name string, opts ...EnvOption) (string, error) {
	var o envOptions
	for _, opt := range opts {
		opt(&o)
	}

	value, ok := os.LookupEnv(name)
	if ok && value != "" {
		return resolveSecretValue(name, value)
	}

	if o.secretFile != "" {
		return readSecretFile(name, o.secretFile)
	}
	if o.hasDefault {
		return o.defaultValue, nil
	}
	if o.required {
		return "", &FoundationError{
			Op:   "env.GetEnv",
			Kind: "env",
			ID:   name,
			Err:  fmt.Errorf("required variable %s: %w", name, ErrEnvVarNotFound),
		}
	}
	return "", nil
}

// resolveSecretValue applies the file:// indirection convention to a
// raw environment variable value.
func resolveSecretValue(name, value string) (string, error) {
	if !strings.HasPrefix(value, SecretFilePrefix) {
		return value, nil
	}
	return readSecretFile(name, strings.TrimPrefix(value, SecretFilePrefix))
}

func readSecretFile(name, path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's environment
	if err != nil {
		return "", &FoundationError{
			Op:   "env.GetEnv",
			Kind: "env",
			ID:   name,
			Err:  fmt.Errorf("%w: %v", ErrSecretFileUnreadable, err),
		}
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", &FoundationError{
			Op:   "env.GetEnv",
			Kind: "env",
			ID:   name,
			Err:  fmt.Errorf("%w: %s", ErrSecretFileEmpty, path),
		}
	}
	return trimmed, nil
}

// ParseFunc converts a raw environment variable string into a field value.
// The returned value must be assignable to the target field's type.
type ParseFunc func(value string) (interface{}, error)

type bindOptions struct {
	prefix        string
	delimiter     string
	caseSensitive bool
	parsers       map[string]ParseFunc
}

// BindOption configures a BindEnv call
type BindOption func(*bindOptions)

// WithPrefix sets the environment variable prefix for derived names
func WithPrefix(prefix string) BindOption {
	return func(o *bindOptions) {
		o.prefix = prefix
	}
}

// WithDelimiter sets the separator between prefix segments and the
// field-derived name. Defaults to "_".
func WithDelimiter(delimiter string) BindOption {
	return func(o *bindOptions) {
		o.delimiter = delimiter
	}
}

// CaseSensitive keeps field-derived variable names in their original
// casing instead of upper-casing them.
func CaseSensitive() BindOption {
	return func(o *bindOptions) {
		o.caseSensitive = true
	}
}

// ParserFor overrides the type-inferred parser for one field. The field
// is addressed by its dotted path from the bound struct root, e.g.
// "Registry.RedisURL".
func ParserFor(fieldPath string, fn ParseFunc) BindOption {
	return func(o *bindOptions) {
		if o.parsers == nil {
			o.parsers = make(map[string]ParseFunc)
		}
		o.parsers[fieldPath] = fn
	}
}

// BindEnv populates a struct from environment variables.
//
// Each exported field resolves its variable name from an env:"NAME[,ALT...]"
// tag, or derives it as {prefix}{delimiter}{FIELD_NAME} where FIELD_NAME is
// the upper-snake form of the Go field name. A default:"..." tag supplies the
// value when no listed variable is set. Values beginning with file:// go
// through secret file resolution before parsing. Nested structs recurse with
// the field name folded into the prefix.
//
// Supported field types: string, bool, all int/uint widths, float32/64,
// time.Duration, time.Time (RFC3339), and []string (comma-separated).
// ParserFor overrides the inferred parser for individual fields.
func BindEnv(target interface{}, opts ...BindOption) error {
	o := bindOptions{delimiter: "_"}
	for _, opt := range opts {
		opt(&o)
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return &FoundationError{
			Op:      "env.BindEnv",
			Kind:    "env",
			Message: "target must be a non-nil pointer to a struct",
			Err:     ErrInvalidConfiguration,
		}
	}

	return bindStruct(v.Elem(), o.prefix, "", &o)
}

func bindStruct(v reflect.Value, prefix, fieldPrefix string, o *bindOptions) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fv := v.Field(i)
		fieldPath := field.Name
		if fieldPrefix != "" {
			fieldPath = fieldPrefix + "." + field.Name
		}

		tag := field.Tag.Get("env")
		if tag == "-" {
			continue
		}

		// Recurse into nested config sections
		if fv.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) && tag == "" {
			nested := joinEnvName(prefix, envNameForField(field.Name, o.caseSensitive), o.delimiter)
			if err := bindStruct(fv, nested, fieldPath, o); err != nil {
				return err
			}
			continue
		}

		names := envNamesFor(field, prefix, o)
		raw, envName, found, err := lookupFirst(names)
		if err != nil {
			return err
		}
		if !found {
			def, ok := field.Tag.Lookup("default")
			if !ok {
				continue
			}
			raw = def
			envName = names[0]
		}

		parser := o.parsers[fieldPath]
		if err := setField(fv, field, raw, parser); err != nil {
			return &FoundationError{
				Op:   "env.BindEnv",
				Kind: "env",
				ID:   envName,
				Err:  fmt.Errorf("parsing %s: %w", envName, err),
			}
		}
	}
	return nil
}

// envNamesFor returns the candidate variable names for a field, in
// lookup priority order.
func envNamesFor(field reflect.StructField, prefix string, o *bindOptions) []string {
	if tag := field.Tag.Get("env"); tag != "" {
		parts := strings.Split(tag, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				names = append(names, trimmed)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return []string{joinEnvName(prefix, envNameForField(field.Name, o.caseSensitive), o.delimiter)}
}

func lookupFirst(names []string) (value, name string, found bool, err error) {
	for _, n := range names {
		if v, ok := os.LookupEnv(n); ok && v != "" {
			resolved, rerr := resolveSecretValue(n, v)
			if rerr != nil {
				return "", n, true, rerr
			}
			return resolved, n, true, nil
		}
	}
	return "", "", false, nil
}

func joinEnvName(prefix, name, delimiter string) string {
	if prefix == "" {
		return name
	}
	return prefix + delimiter + name
}

// envNameForField converts a Go field name to its environment variable
// form: CamelCase becomes CAMEL_CASE unless case sensitivity is requested.
// Runs of upper-case letters (initialisms like URL, TTL) stay together.
func envNameForField(name string, caseSensitive bool) string {
	if caseSensitive {
		return name
	}
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func setField(fv reflect.Value, field reflect.StructField, raw string, parser ParseFunc) error {
	if parser != nil {
		parsed, err := parser(raw)
		if err != nil {
			return err
		}
		pv := reflect.ValueOf(parsed)
		if !pv.Type().AssignableTo(fv.Type()) {
			if !pv.Type().ConvertibleTo(fv.Type()) {
				return fmt.Errorf("parser returned %T, want %s", parsed, fv.Type())
			}
			pv = pv.Convert(fv.Type())
		}
		fv.Set(pv)
		return nil
	}

	switch {
	case field.Type == reflect.TypeOf(time.Duration(0)):
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
	case field.Type == reflect.TypeOf(time.Time{}):
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(ts))
	case field.Type == reflect.TypeOf([]string(nil)):
		fv.Set(reflect.ValueOf(ParseStringList(raw)))
	default:
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Bool:
			fv.SetBool(ParseBool(raw))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, field.Type.Bits())
			if err != nil {
				return err
			}
			fv.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(raw, 10, field.Type.Bits())
			if err != nil {
				return err
			}
			fv.SetUint(n)
		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(raw, field.Type.Bits())
			if err != nil {
				return err
			}
			fv.SetFloat(f)
		default:
			return fmt.Errorf("unsupported field type %s", field.Type)
		}
	}
	return nil
}

// ParseStringList splits a comma-separated string into a slice of strings.
// Whitespace is trimmed from each element, and empty strings are filtered out.
// Example: "a, b, c" -> ["a", "b", "c"]
func ParseStringList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ParseBool converts a string to a boolean value.
// Accepts: "true", "1", "yes", "on" (case-insensitive) as true.
// Everything else is false.
func ParseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
