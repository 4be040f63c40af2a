package feed

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Number decodes a JSON number, a numeric string, or an object carrying "value".
// Anything else decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(v)
	case '{':
		var obj struct {
			Value *float64 `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Value != nil {
			*n = Number(*obj.Value)
		} else {
			*n = 0
		}
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			*n = 0
			return nil
		}
		*n = Number(v)
	}
	return nil
}

func (n Number) Float() float64 { return float64(n) }
