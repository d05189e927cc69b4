package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// applyEnvOverrides 用 `env:"NAME"` 标签指定的环境变量覆盖字段
// prefix 非空时变量名为 prefix + "_" + NAME
func applyEnvOverrides(v interface{}, prefix string) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return ErrNotPointer
	}
	return applyEnvToStruct(val.Elem(), prefix)
}

func applyEnvToStruct(val reflect.Value, prefix string) error {
	if val.Kind() != reflect.Struct {
		return nil
	}

	var errs error
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		if key := typ.Field(i).Tag.Get("env"); key != "" {
			if prefix != "" {
				key = prefix + "_" + key
			}
			if envVal, ok := os.LookupEnv(key); ok && envVal != "" {
				if err := setFieldValue(field, envVal); err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%w: %s=%q: %v", ErrEnvOverride, key, envVal, err))
				}
				continue
			}
		}

		if field.Kind() == reflect.Struct {
			errs = multierr.Append(errs, applyEnvToStruct(field, prefix))
		}
	}
	return errs
}

var durationType = reflect.TypeOf(time.Duration(0))

func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(value, ",")
		slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
		for i, p := range parts {
			slice.Index(i).SetString(strings.TrimSpace(p))
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
