package jspy

import (
	"fmt"
	"time"
)

func timeMethod(name string) (BuiltinFunc, bool) {
	field := func(get func(time.Time) int) BuiltinFunc {
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			return NewInt(get(receiver.Time())), nil
		}
	}

	switch name {
	case "year":
		return field(time.Time.Year), true
	case "month":
		return field(func(t time.Time) int { return int(t.Month()) }), true
	case "day":
		return field(time.Time.Day), true
	case "hour":
		return field(time.Time.Hour), true
	case "minute":
		return field(time.Time.Minute), true
	case "second":
		return field(time.Time.Second), true
	case "format":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			layout := time.RFC3339
			if len(args) > 0 {
				s, err := argString(args, 0, "datetime.format")
				if err != nil {
					return NewNull(), err
				}
				layout = timeLayout(s)
			}
			return NewString(receiver.Time().Format(layout)), nil
		}, true
	case "addDays":
		return func(exec *Execution, receiver Value, args []Value) (Value, error) {
			days, err := argInt(args, 0, "datetime.addDays")
			if err != nil {
				return NewNull(), err
			}
			return NewTime(receiver.Time().AddDate(0, 0, days)), nil
		}, true
	default:
		return nil, false
	}
}

// timeLayout maps the named layouts scripts may use to Go layouts. Any other
// string is used as a Go reference layout.
func timeLayout(name string) string {
	switch name {
	case "iso", "ISO":
		return time.RFC3339
	case "date":
		return time.DateOnly
	case "time":
		return time.TimeOnly
	case "datetime":
		return time.DateTime
	default:
		return name
	}
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date-time %q", ErrType, s)
}
