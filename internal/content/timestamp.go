package content

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	errNotInteger    = errors.New("must be an integer number of milliseconds since the epoch")
	errNegativeEpoch = errors.New("must not be before the epoch")
	errDateLiteral   = errors.New("must be epoch milliseconds, not a date")
)

// EpochMillis reads a millisecond epoch timestamp. It accepts the
// representations decoders produce for an integer: native ints, integral
// floats, json.Number and decimal digit strings.
func EpochMillis(v any) (int64, error) {
	var ms int64
	switch n := v.(type) {
	case int:
		ms = int64(n)
	case int64:
		ms = n
	case int32:
		ms = int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0, errNotInteger
		}
		ms = int64(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, errNotInteger
		}
		ms = int64(n)
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, errNotInteger
		}
		ms = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, errNotInteger
		}
		ms = parsed
	case time.Time:
		return 0, errDateLiteral
	default:
		return 0, errNotInteger
	}

	if ms < 0 {
		return 0, errNegativeEpoch
	}
	return ms, nil
}
