package configmap

import (
	"reflect"
	"time"

	"github.com/spf13/pflag"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

func MustGenerateFlags(fs *pflag.FlagSet, v any) {
	if err := GenerateFlags(fs, v); err != nil {
		panic(err)
	}
}

// GenerateFlags registers a flag for each "configKey" tagged field,
// the current structure values are used as flag defaults.
func GenerateFlags(fs *pflag.FlagSet, v any) error {
	value := reflect.ValueOf(v)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return errors.Errorf(`cannot generate flags from type "%T": it is not a struct or a pointer to a struct`, v)
	}

	errs := errors.NewMultiError()
	visit(value, nil, func(field reflect.Value, path []string) {
		name := flagName(path)
		usage := usageFor(value, path)

		switch v := field.Interface().(type) {
		case time.Duration:
			fs.Duration(name, v, usage)
		case string:
			fs.String(name, v, usage)
		case bool:
			fs.Bool(name, v, usage)
		case int:
			fs.Int(name, v, usage)
		case float64:
			fs.Float64(name, v, usage)
		case []string:
			fs.StringSlice(name, v, usage)
		default:
			errs.Append(errors.Errorf(`cannot generate flag "--%s": unsupported type "%s"`, name, field.Type().String()))
		}
	})
	return errs.ErrorOrNil()
}

// usageFor finds the configUsage tag of the field addressed by the path.
func usageFor(root reflect.Value, path []string) string {
	value := root
	for i, key := range path {
		t := value.Type()
		for j := range t.NumField() {
			if t.Field(j).Tag.Get(tagKey) == key {
				if i == len(path)-1 {
					return t.Field(j).Tag.Get(tagUsage)
				}
				value = value.Field(j)
				break
			}
		}
	}
	return ""
}
