package tree

import (
	"fmt"
	"strconv"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined stands for an attribute value that was never provided. It
// stringifies to "undefined", as nil stringifies to "null".
var Undefined any = undefined{}

// AttrString converts an attribute value to its string form. The conversion
// is permissive: nil becomes "null" and Undefined becomes "undefined"
// rather than omitting the attribute.
func AttrString(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
