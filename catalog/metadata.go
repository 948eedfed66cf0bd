package catalog

import (
	"github.com/valyala/fastjson"
)

var parsers fastjson.ParserPool

// MetadataField returns the top-level field key of the entry's JSON metadata
// as a string. Strings are returned unquoted; numbers, booleans and nested
// values in their JSON form. It reports false when the metadata is not a
// JSON object or has no such field.
func (e Entry) MetadataField(key string) (string, bool) {
	if e.Metadata == "" {
		return "", false
	}

	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.Parse(e.Metadata)
	if err != nil || v.Type() != fastjson.TypeObject {
		return "", false
	}

	field := v.Get(key)
	if field == nil {
		return "", false
	}
	if field.Type() == fastjson.TypeString {
		return string(field.GetStringBytes()), true
	}
	return field.String(), true
}

// MetadataMap decodes JSON object metadata into plain Go values. It returns
// an empty map when the metadata is empty or not a JSON object.
func (e Entry) MetadataMap() map[string]any {
	out := map[string]any{}
	if e.Metadata == "" {
		return out
	}

	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.Parse(e.Metadata)
	if err != nil {
		return out
	}
	obj, err := v.Object()
	if err != nil {
		return out
	}
	obj.Visit(func(key []byte, v *fastjson.Value) {
		out[string(key)] = toGo(v)
	})
	return out
}

func toGo(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		m := map[string]any{}
		o, _ := v.Object()
		o.Visit(func(key []byte, v *fastjson.Value) {
			m[string(key)] = toGo(v)
		})
		return m
	case fastjson.TypeArray:
		arr, _ := v.Array()
		out := make([]any, 0, len(arr))
		for _, item := range arr {
			out = append(out, toGo(item))
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}
