package cast

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"tree-reshaper/tree"
)

const dateLayout = "2006-01-02"

func builtin(k Kind) Func {
	switch {
	case k.IsSigned():
		return func(v tree.Value, _ string) (tree.Value, error) { return toSigned(v, k) }
	case k.IsUnsigned():
		return func(v tree.Value, _ string) (tree.Value, error) { return toUnsigned(v, k) }
	case k.IsFloat():
		return func(v tree.Value, param string) (tree.Value, error) { return toFloat(v, k, param) }
	}

	switch k {
	case KindBool:
		return func(v tree.Value, _ string) (tree.Value, error) { return toBool(v) }
	case KindString:
		return func(v tree.Value, _ string) (tree.Value, error) { return toString(v) }
	case KindTime:
		return func(v tree.Value, param string) (tree.Value, error) { return toTime(v, param, time.RFC3339) }
	case KindDate:
		return toDate
	case KindDuration:
		return func(v tree.Value, _ string) (tree.Value, error) { return toDuration(v) }
	case KindList:
		return func(v tree.Value, _ string) (tree.Value, error) { return toList(v), nil }
	default:
		panic("no built-in cast for kind " + k.String())
	}
}

func incompatible(v tree.Value) error {
	return fmt.Errorf("%w: %s", ErrIncompatible, tree.KindOf(v))
}

func toSigned(v tree.Value, k Kind) (tree.Value, error) {
	n, err := asInt(v)
	if err != nil {
		return nil, err
	}

	bits := k.Bits()
	if bits < 64 && (n < -(1<<(bits-1)) || n > 1<<(bits-1)-1) {
		return nil, fmt.Errorf("%d overflows %s", n, k)
	}

	switch k {
	case KindInt8:
		return int8(n), nil
	case KindInt16:
		return int16(n), nil
	case KindInt32:
		return int32(n), nil
	case KindInt64:
		return n, nil
	default:
		return int(n), nil
	}
}

func toUnsigned(v tree.Value, k Kind) (tree.Value, error) {
	n, err := asInt(v)
	if err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, fmt.Errorf("%d is negative", n)
	}

	bits := k.Bits()
	if bits < 64 && uint64(n) > 1<<bits-1 {
		return nil, fmt.Errorf("%d overflows %s", n, k)
	}

	switch k {
	case KindUint8:
		return uint8(n), nil
	case KindUint16:
		return uint16(n), nil
	case KindUint32:
		return uint32(n), nil
	case KindUint64:
		return uint64(n), nil
	default:
		return uint(n), nil
	}
}

// asInt converts a scalar to int64, truncating fractions.
func asInt(v tree.Value) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}

		return 0, nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x)
		}

		return truncate(f)
	case time.Time:
		return x.Unix(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", rv.Uint())
		}

		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return truncate(rv.Float())
	default:
		return 0, incompatible(v)
	}
}

func truncate(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v is out of integer range", f)
	}

	return int64(math.Trunc(f)), nil
}

func toFloat(v tree.Value, k Kind, param string) (tree.Value, error) {
	f, err := asFloat(v)
	if err != nil {
		return nil, err
	}

	if param != "" {
		places, err := strconv.Atoi(param)
		if err != nil || places < 0 {
			return nil, fmt.Errorf("invalid precision %q", param)
		}

		scale := math.Pow(10, float64(places))
		f = math.Round(f*scale) / scale
	}

	if k == KindFloat32 {
		return float32(f), nil
	}

	return f, nil
}

func asFloat(v tree.Value) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}

		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x)
		}

		return f, nil
	case time.Duration:
		return x.Seconds(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, incompatible(v)
	}
}

func toBool(v tree.Value) (tree.Value, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "on", "1", "y":
			return true, nil
		case "false", "no", "off", "0", "n", "":
			return false, nil
		default:
			return nil, fmt.Errorf("%q is not a boolean", x)
		}
	}

	if tree.IsContainer(v) {
		return nil, incompatible(v)
	}

	f, err := asFloat(v)
	if err != nil {
		return nil, err
	}

	return f != 0, nil
}

func toString(v tree.Value) (tree.Value, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case time.Duration:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.String:
		return rv.String(), nil
	default:
		return nil, incompatible(v)
	}
}

func toTime(v tree.Value, layout, fallback string) (time.Time, error) {
	if layout == "" {
		layout = fallback
	}

	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		t, err := time.Parse(layout, strings.TrimSpace(x))
		if err != nil {
			return time.Time{}, err
		}

		return t, nil
	}

	if tree.IsContainer(v) || v == nil {
		return time.Time{}, incompatible(v)
	}

	sec, err := asInt(v)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(sec, 0).UTC(), nil
}

func toDate(v tree.Value, layout string) (tree.Value, error) {
	t, err := toTime(v, layout, dateLayout)
	if err != nil {
		return nil, err
	}

	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
}

func toDuration(v tree.Value) (tree.Value, error) {
	switch x := v.(type) {
	case time.Duration:
		return x, nil
	case string:
		return time.ParseDuration(strings.TrimSpace(x))
	case float32, float64:
		f, _ := asFloat(x)
		return time.Duration(f * float64(time.Second)), nil
	}

	if tree.IsContainer(v) || v == nil {
		return nil, incompatible(v)
	}

	n, err := asInt(v)
	if err != nil {
		return nil, err
	}

	return time.Duration(n), nil
}

func toList(v tree.Value) tree.Value {
	switch x := v.(type) {
	case nil:
		return tree.NewList()
	case *tree.List:
		return x
	case *tree.Map:
		l := tree.NewList()
		for _, child := range x.All() {
			l.Append(child)
		}

		return l
	default:
		return tree.NewList(v)
	}
}
