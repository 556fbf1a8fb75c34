package cast

import (
	"math"
	"strings"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind is a type name understood by the built-in casts.
type Kind int

const (
	_ Kind = iota // skip zero value, use it as the unknown kind

	KindInt      // int
	KindInt8     // int8
	KindInt16    // int16
	KindInt32    // int32
	KindInt64    // int64
	KindUint     // uint
	KindUint8    // uint8
	KindUint16   // uint16
	KindUint32   // uint32
	KindUint64   // uint64
	KindFloat32  // float32
	KindFloat64  // float64
	KindBool     // bool
	KindString   // string
	KindTime     // time
	KindDate     // date
	KindDuration // duration
	KindList     // list
)

var aliases = map[string]Kind{
	"integer":  KindInt64,
	"float":    KindFloat64,
	"double":   KindFloat64,
	"real":     KindFloat64,
	"boolean":  KindBool,
	"datetime": KindTime,
	"array":    KindList,
}

// ParseKind resolves a type name, case-insensitively, including aliases
// such as "float" and "boolean". Unknown names return the zero Kind.
func ParseKind(name string) Kind {
	name = strings.ToLower(strings.TrimSpace(name))

	if k, ok := aliases[name]; ok {
		return k
	}

	for k := KindInt; k <= KindList; k++ {
		if k.String() == name {
			return k
		}
	}

	return 0
}

// IsFloatType reports whether name denotes a floating-point kind.
func IsFloatType(name string) bool {
	return ParseKind(name).IsFloat()
}

func (k Kind) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k Kind) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k Kind) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k Kind) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits returns the width of a numeric kind.
func (k Kind) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful width, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}

		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}
