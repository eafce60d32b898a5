package global

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/es5box/es5box/internal/value"
)

func builtinParseInt(this value.Value, args []value.Value) (value.Value, error) {
	s := strings.TrimSpace(value.ToPrimitiveString(arg(args, 0)))
	radix := 10
	if len(args) > 1 {
		if r := int(value.ToNumber(args[1])); r != 0 {
			radix = r
		}
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if (radix == 16 || radix == 0) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}
	end := 0
	for end < len(s) && digitValue(s[end]) < radix {
		end++
	}
	if end == 0 {
		return value.Number(math.NaN()), nil
	}
	n, err := strconv.ParseInt(s[:end], radix, 64)
	if err != nil {
		// Overflow beyond int64: fall back to float parsing digit by digit.
		var f float64
		for i := 0; i < end; i++ {
			f = f*float64(radix) + float64(digitValue(s[i]))
		}
		if neg {
			f = -f
		}
		return value.Number(f), nil
	}
	if neg {
		n = -n
	}
	return value.Number(float64(n)), nil
}

func digitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10
	default:
		return 99
	}
}

func builtinParseFloat(this value.Value, args []value.Value) (value.Value, error) {
	s := strings.TrimSpace(value.ToPrimitiveString(arg(args, 0)))
	end := 0
	sawDigit, sawDot, sawExp := false, false, false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.' && !sawDot && !sawExp:
			sawDot = true
		case (c == '+' || c == '-') && end == 0:
		case (c == 'e' || c == 'E') && sawDigit && !sawExp:
			sawExp = true
		case (c == '+' || c == '-') && end > 0 && (s[end-1] == 'e' || s[end-1] == 'E'):
		default:
			goto done
		}
		end++
	}
done:
	if !sawDigit {
		if strings.HasPrefix(s, "Infinity") || strings.HasPrefix(s, "+Infinity") {
			return value.Number(math.Inf(1)), nil
		}
		if strings.HasPrefix(s, "-Infinity") {
			return value.Number(math.Inf(-1)), nil
		}
		return value.Number(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return value.Number(math.NaN()), nil
	}
	return value.Number(f), nil
}

func builtinIsNaN(this value.Value, args []value.Value) (value.Value, error) {
	return value.Boolean(math.IsNaN(value.ToNumber(arg(args, 0)))), nil
}

func builtinIsFinite(this value.Value, args []value.Value) (value.Value, error) {
	f := value.ToNumber(arg(args, 0))
	return value.Boolean(!math.IsNaN(f) && !math.IsInf(f, 0)), nil
}

func builtinEncodeURIComponent(this value.Value, args []value.Value) (value.Value, error) {
	return value.String(url.QueryEscape(value.ToPrimitiveString(arg(args, 0)))), nil
}

func builtinDecodeURIComponent(this value.Value, args []value.Value) (value.Value, error) {
	s, err := url.QueryUnescape(value.ToPrimitiveString(arg(args, 0)))
	if err != nil {
		return nil, err
	}
	return value.String(s), nil
}
