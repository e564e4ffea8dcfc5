package export

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/kregerl/nbt-editor/pkg/tag"
)

func writeJSON(w io.Writer, t *tag.Tree) error {
	var compact bytes.Buffer
	appendJSON(&compact, t.Root)
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func appendJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// appendJSON writes v as JSON, keeping the order of compound entries.
// Non-finite floats are written as the strings "inf", "-inf" and "nan".
func appendJSON(buf *bytes.Buffer, v tag.Value) {
	switch v := v.(type) {
	case tag.Float, tag.Double:
		if f := toFloat64(v); math.IsInf(f, 0) || math.IsNaN(f) {
			appendJSONString(buf, tag.Format(v))
		} else {
			buf.WriteString(tag.Format(v))
		}
	case tag.String:
		appendJSONString(buf, string(v))
	case tag.ByteArray, tag.IntArray, tag.LongArray:
		n, _ := tag.ArrayLen(v)
		buf.WriteByte('[')
		for i := 0; i < n; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(tag.FormatElem(v, i))
		}
		buf.WriteByte(']')
	case *tag.List:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendJSON(buf, item)
		}
		buf.WriteByte(']')
	case *tag.Compound:
		buf.WriteByte('{')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, child := v.At(i)
			appendJSONString(buf, name)
			buf.WriteByte(':')
			appendJSON(buf, child)
		}
		buf.WriteByte('}')
	default:
		buf.WriteString(tag.Format(v))
	}
}

func toFloat64(v tag.Value) float64 {
	if f, ok := v.(tag.Float); ok {
		return float64(f)
	}
	return float64(v.(tag.Double))
}
