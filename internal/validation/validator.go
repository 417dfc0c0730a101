package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-sales-orders/internal/apperr"
)

// New returns a configured validator with custom struct-level validation registered.
// Field names in reported errors follow the json tag when one is present.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return lowerFirst(fld.Name)
		}
		return name
	})

	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})
	v.RegisterStructValidation(analyticsStructValidation, AnalyticsQuery{})

	return v
}

// createOrderStructValidation rejects negative explicit unit prices.
// An omitted unit price falls back to the catalog price later.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	for i, it := range req.OrderItems {
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			sl.ReportError(it.UnitPrice, fmt.Sprintf("orderItems[%d].unitPrice", i), "UnitPrice", "gte_zero", it.UnitPrice.String())
		}
	}
}

// analyticsStructValidation compares the window bounds the way the query
// resolves them: a date-only end covers that whole day.
func analyticsStructValidation(sl validatorv10.StructLevel) {
	q := sl.Current().Interface().(AnalyticsQuery)

	start, errStart := ParseDate(q.Start)
	end, errEnd := ParseWindowEnd(q.End)
	if q.Start != "" && errStart != nil {
		sl.ReportError(q.Start, "start", "Start", "date", q.Start)
	}
	if q.End != "" && errEnd != nil {
		sl.ReportError(q.End, "end", "End", "date", q.End)
	}
	if errStart == nil && errEnd == nil && !start.IsZero() && !end.IsZero() && end.Before(start) {
		sl.ReportError(q.End, "end", "End", "after_start", q.End)
	}
}

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates (UTC).
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// Errors converts validator output into an apperr.ValidationError.
// Any other error is returned unchanged.
func Errors(err error) error {
	if err == nil {
		return nil
	}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &apperr.ValidationError{Fields: map[string]string{}}
	for _, fe := range ve {
		out.Fields[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validatorv10.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte_zero":
		return "must not be negative"
	case "date":
		return "must be an RFC3339 timestamp or YYYY-MM-DD date"
	case "after_start":
		return "must not be before start"
	}
	return fe.Error()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ParseWindowEnd is ParseDate for the inclusive end of a window: a plain
// date covers the whole day.
func ParseWindowEnd(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Nanosecond), nil
}
