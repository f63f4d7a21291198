package binder

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
)

// Query returns a binder that populates v from URL query parameters using
// `query` struct tags. Supported field types are string, int64 and pointers
// to them; a pointer field stays nil when the parameter is absent.
//
//	type backlogQuery struct {
//		UserID *int64 `query:"userId"`
//		Room   string `query:"room"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("%w: target must be a non-nil struct pointer", ErrInvalidQuery)
		}

		values := r.URL.Query()
		elem := rv.Elem()
		typ := elem.Type()

		for i := range typ.NumField() {
			field := typ.Field(i)
			name := field.Tag.Get("query")
			if name == "" || name == "-" || !field.IsExported() {
				continue
			}
			if !values.Has(name) {
				continue
			}
			raw := values.Get(name)

			target := elem.Field(i)
			if target.Kind() == reflect.Pointer {
				target.Set(reflect.New(target.Type().Elem()))
				target = target.Elem()
			}

			switch target.Kind() {
			case reflect.String:
				target.SetString(raw)
			case reflect.Int64:
				n, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("%w: %s must be an integer", ErrInvalidQuery, name)
				}
				target.SetInt(n)
			default:
				return fmt.Errorf("%w: unsupported field type for %s", ErrInvalidQuery, name)
			}
		}
		return nil
	}
}
