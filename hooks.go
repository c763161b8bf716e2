package wiring

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LiteralProvider supplies values for di.inject fields of scalar kinds
// (string, bool and numeric types).
//   - key: the di.inject tag value, or the field name when the tag value is empty
//   - targetType: the declared type of the field
//
// Returns:
//   - value: the literal to inject; it must be assignable or convertible to targetType
//   - found: whether a value is available
//   - err: any error occurred while sourcing the value (e.g., parsing, I/O)
//
// When found is false the field is resolved like any other dependency.
type LiteralProvider func(key string, targetType reflect.Type) (value any, found bool, err error)

var durationType = reflect.TypeOf(time.Duration(0))

// EnvLiteralProvider returns a LiteralProvider backed by the process
// environment and, optionally, by the given .env files. Process environment
// variables take precedence over file values, as with godotenv.Load, but the
// files are read without modifying the environment.
//
// Values are parsed according to the field kind; time.Duration fields accept
// strings such as "1m30s".
func EnvLiteralProvider(files ...string) (LiteralProvider, error) {
	fileValues := map[string]string{}
	if len(files) > 0 {
		read, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("reading env files: %w", err)
		}
		fileValues = read
	}

	return func(key string, targetType reflect.Type) (any, bool, error) {
		raw, ok := os.LookupEnv(key)
		if !ok {
			raw, ok = fileValues[key]
		}
		if !ok {
			return nil, false, nil
		}
		value, err := parseLiteral(raw, targetType)
		if err != nil {
			return nil, false, fmt.Errorf("parsing %s: %w", key, err)
		}
		return value, true, nil
	}, nil
}

func parseLiteral(raw string, target reflect.Type) (any, error) {
	var parsed any
	var err error

	switch target.Kind() {
	case reflect.String:
		parsed = raw
	case reflect.Bool:
		parsed, err = strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if target == durationType {
			parsed, err = time.ParseDuration(raw)
			break
		}
		parsed, err = strconv.ParseInt(raw, 0, target.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		parsed, err = strconv.ParseUint(raw, 0, target.Bits())
	case reflect.Float32, reflect.Float64:
		parsed, err = strconv.ParseFloat(raw, target.Bits())
	case reflect.Complex64, reflect.Complex128:
		parsed, err = strconv.ParseComplex(raw, target.Bits())
	default:
		return nil, fmt.Errorf("unsupported literal type %s", target)
	}
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(parsed).Convert(target).Interface(), nil
}
