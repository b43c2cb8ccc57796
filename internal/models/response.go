package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ResponseValue is a single answer: either a string or a number.
type ResponseValue struct {
	str      string
	num      float64
	isNumber bool
}

func StringValue(s string) ResponseValue {
	return ResponseValue{str: s}
}

func NumberValue(n float64) ResponseValue {
	return ResponseValue{num: n, isNumber: true}
}

// Text returns the answer when it is textual.
func (v ResponseValue) Text() (string, bool) {
	if v.isNumber {
		return "", false
	}
	return v.str, true
}

// Number returns the numeric answer. Numeric strings such as "4" are accepted.
func (v ResponseValue) Number() (float64, bool) {
	if v.isNumber {
		return v.num, true
	}
	n, err := strconv.ParseFloat(v.str, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String stringifies the answer; integral numbers print without a fraction ("5", not "5.0").
func (v ResponseValue) String() string {
	if !v.isNumber {
		return v.str
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

func (v ResponseValue) MarshalJSON() ([]byte, error) {
	if v.isNumber {
		return []byte(v.String()), nil
	}
	return json.Marshal(v.str)
}

func (v *ResponseValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty response value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case 'n':
		*v = StringValue("")
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("response value must be a string or a number: %w", err)
		}
		*v = NumberValue(n)
		return nil
	}
}

// ResponseMap maps a question id to its answer.
type ResponseMap map[string]ResponseValue
