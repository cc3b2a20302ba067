package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// Object is a decoded JSON object that remembers key order.
type Object struct {
	Keys   []string
	Fields map[string]any
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Fields[key]
	return v, ok
}

// Values returns the field values in document order.
func (o *Object) Values() []any {
	out := make([]any, 0, len(o.Keys))
	for _, k := range o.Keys {
		out = append(out, o.Fields[k])
	}
	return out
}

// Path follows a dotted path through nested objects, e.g. "author.role".
func (o *Object) Path(path string) (any, bool) {
	cur := o
	parts := strings.Split(path, ".")
	for i, p := range parts {
		v, ok := cur.Get(p)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(*Object)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Decode parses a JSON document. Objects decode to *Object, arrays to []any,
// numbers to json.Number holding the literal text, strings to string,
// booleans to bool and null to nil. A repeated key keeps its first position
// and its last value.
func Decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("not a well-formed JSON value")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.String()
	}

	if r.IsArray() {
		arr := []any{}
		r.ForEach(func(_, v gjson.Result) bool {
			arr = append(arr, fromResult(v))
			return true
		})
		return arr
	}

	obj := &Object{Fields: make(map[string]any)}
	r.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if _, dup := obj.Fields[key]; !dup {
			obj.Keys = append(obj.Keys, key)
		}
		obj.Fields[key] = fromResult(v)
		return true
	})
	return obj
}
