// Package configmap binds a configuration structure from flags and environment variables.
//
// Each field tagged with the "configKey" tag is mapped to a flag and an ENV variable:
//
//	Interval time.Duration `configKey:"interval" configUsage:"Sweep interval."`
//
// In a structure nested under the key "sweeper" the field maps
// to the "--sweeper-interval" flag and the "<PREFIX>_SWEEPER_INTERVAL" ENV.
// Value precedence: flag (if changed) > ENV > default from the structure.
package configmap

import (
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

const (
	tagKey   = "configKey"
	tagUsage = "configUsage"
)

// LookupEnvFn is os.LookupEnv or a test replacement.
type LookupEnvFn func(key string) (string, bool)

// Bind fills the target structure from the flag set and the environment.
// GenerateFlags must have been called with the same structure before flag parsing.
func Bind(fs *pflag.FlagSet, envPrefix string, lookupEnv LookupEnvFn, target any) error {
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return errors.Errorf(`cannot bind configuration to type "%T": expected a pointer to a struct`, target)
	}

	errs := errors.NewMultiError()
	visit(value.Elem(), nil, func(field reflect.Value, path []string) {
		flagName := flagName(path)
		envName := envName(envPrefix, path)

		// Flag, when explicitly set, wins.
		if flag := fs.Lookup(flagName); flag != nil && flag.Changed {
			if err := setFromString(field, flag.Value.String()); err != nil {
				errs.AppendWithPrefixf(err, `invalid flag "--%s"`, flagName)
			}
			return
		}

		// Then the ENV.
		if raw, found := lookupEnv(envName); found {
			if err := setFromString(field, raw); err != nil {
				errs.AppendWithPrefixf(err, `invalid ENV "%s"`, envName)
			}
			return
		}

		// Otherwise the default value in the structure is kept.
	})
	return errs.ErrorOrNil()
}

func visit(value reflect.Value, path []string, onLeaf func(field reflect.Value, path []string)) {
	t := value.Type()
	for i := range t.NumField() {
		structField := t.Field(i)
		key := structField.Tag.Get(tagKey)
		if key == "" || key == "-" || !structField.IsExported() {
			continue
		}

		field := value.Field(i)
		fieldPath := append(append([]string{}, path...), key)
		if field.Kind() == reflect.Struct && !isLeafType(field.Type()) {
			visit(field, fieldPath, onLeaf)
			continue
		}
		onLeaf(field, fieldPath)
	}
}

func isLeafType(t reflect.Type) bool {
	// time.Duration is int64, structs other than time.Time are visited recursively.
	return t == reflect.TypeOf(time.Time{})
}

func flagName(path []string) string {
	return strings.ToLower(strings.Join(path, "-"))
}

func envName(prefix string, path []string) string {
	return prefix + strings.ToUpper(strings.Join(path, "_"))
}

func setFromString(field reflect.Value, raw string) error {
	switch field.Interface().(type) {
	case time.Duration:
		v, err := cast.ToDurationE(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(v))
		return nil
	case string:
		field.SetString(raw)
		return nil
	case bool:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		field.SetBool(v)
		return nil
	case int:
		v, err := cast.ToInt64E(raw)
		if err != nil {
			return err
		}
		field.SetInt(v)
		return nil
	case float64:
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		field.SetFloat(v)
		return nil
	case []string:
		field.Set(reflect.ValueOf(cast.ToStringSlice(raw)))
		return nil
	default:
		return errors.Errorf(`unsupported configuration field type "%s"`, field.Type().String())
	}
}
