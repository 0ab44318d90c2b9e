package sanctuary

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/query"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.SetTagName("binding")
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate checks r against the rules of resource and returns a message per
// offending field, keyed by its dotted JSON path. An empty map means r is
// valid. Unknown resources are not validated.
func Validate(resource string, r records.Record) map[string]string {
	errs := map[string]string{}
	def, ok := registry[resource]
	if !ok {
		return errs
	}

	candidate := r.Clone()
	if candidate == nil {
		candidate = records.Record{}
	}
	for _, f := range def.schema.DateFields {
		if v, ok := candidate[f]; ok && v != nil && v != "" {
			if _, ok := query.ToTime(v); !ok {
				errs[f] = "must be a valid date"
			}
		} else if ok {
			delete(candidate, f)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	def.schema.Coerce(candidate, resource, nil)

	target := def.newValue()
	if err := decodeInto(candidate, target); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) && te.Field != "" {
			errs[te.Field] = fmt.Sprintf("must be a %s", describeKind(te.Type))
			return errs
		}
		errs["_"] = err.Error()
		return errs
	}

	if err := validatorInstance().Struct(target); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs["_"] = err.Error()
			return errs
		}
		for _, fe := range verrs {
			errs[fieldPath(fe)] = message(fe)
		}
	}
	if ev, ok := target.(*Event); ok && ev.StartDate != nil && ev.EndDate != nil && ev.EndDate.Before(*ev.StartDate) {
		errs["endDate"] = "must not be before startDate"
	}
	return errs
}

func decodeInto(r records.Record, target any) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}

// fieldPath drops the struct name and any embedded struct from the
// validator namespace.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func describeKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Float64, reflect.Float32:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	}
	return t.Kind().String()
}
