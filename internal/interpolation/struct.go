package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InterpolateStruct applies environment variable interpolation to fields
// tagged with `env_interpolation:"yes"`. It modifies the provided struct in
// place and handles string fields, string slices, nested structs, and
// slices of structs.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct or pointer to struct, got %T", v)
	}

	typ := val.Type()
	var errs []error

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		// Nested structs recurse regardless of tagging so their own tagged
		// fields get picked up.
		switch field.Kind() {
		case reflect.Struct:
			if err := InterpolateStruct(field.Addr().Interface()); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
			}
			continue
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.Struct {
				for j := 0; j < field.Len(); j++ {
					if err := InterpolateStruct(field.Index(j).Addr().Interface()); err != nil {
						errs = append(errs, fmt.Errorf("field %s[%d]: %w", fieldType.Name, j, err))
					}
				}
				continue
			}
		}

		tag := strings.ToLower(fieldType.Tag.Get("env_interpolation"))
		if tag != "yes" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			original := field.String()
			if original == "" {
				continue
			}
			interpolated, err := ExpandEnvVars(original)
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
				continue
			}
			field.SetString(interpolated)

		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				original := elem.String()
				if original == "" {
					continue
				}
				interpolated, err := ExpandEnvVars(original)
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%d]: %w", fieldType.Name, j, err))
					continue
				}
				elem.SetString(interpolated)
			}
		}
	}

	return errors.Join(errs...)
}
