package validate

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
)

var intType = reflect.TypeOf(0)

// Integer is an int that also accepts JSON numbers written with a zero
// fraction, such as 2021.0.
type Integer int

func (i *Integer) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &json.UnmarshalTypeError{Value: typeErr.Value, Type: intType}
		}
		return err
	}
	if math.Trunc(f) != f || f > math.MaxInt32 || f < math.MinInt32 {
		return &json.UnmarshalTypeError{Value: "number " + string(b), Type: intType}
	}
	*i = Integer(f)
	return nil
}

// IntPtr converts a present value to *int and keeps nil as nil.
func (i *Integer) IntPtr() *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}
