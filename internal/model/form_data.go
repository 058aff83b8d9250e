package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of date answers (HTML date inputs emit it).
const DateLayout = "2006-01-02"

// ValueKind tags the type of a single wizard answer
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindDate   ValueKind = "date"
	KindBool   ValueKind = "bool"
	KindJSON   ValueKind = "json" // any other JSON fragment, kept verbatim
)

// FieldValue is one answer stored under a field id.
// Dates are still encoded as JSON strings; numbers keep their exact decimal text.
type FieldValue struct {
	kind ValueKind
	text string
	flag bool
	raw  json.RawMessage
}

func StringValue(s string) FieldValue {
	return FieldValue{kind: KindString, text: s}
}

func NumberValue(d decimal.Decimal) FieldValue {
	return FieldValue{kind: KindNumber, text: d.String()}
}

func DateValue(t time.Time) FieldValue {
	return FieldValue{kind: KindDate, text: t.Format(DateLayout)}
}

func BoolValue(b bool) FieldValue {
	return FieldValue{kind: KindBool, flag: b}
}

// ParseValue tags a raw text answer the way the JSON decoder would tag a JSON string.
func ParseValue(s string) FieldValue {
	if _, err := time.Parse(DateLayout, s); err == nil {
		return FieldValue{kind: KindDate, text: s}
	}
	return StringValue(s)
}

func (v FieldValue) Kind() ValueKind {
	if v.kind == "" {
		return KindJSON
	}
	return v.kind
}

// String returns the textual form of the answer.
func (v FieldValue) String() string {
	switch v.kind {
	case KindString, KindNumber, KindDate:
		return v.text
	case KindBool:
		if v.flag {
			return "true"
		}
		return "false"
	}
	if len(v.raw) == 0 {
		return "null"
	}
	return string(v.raw)
}

// Decimal interprets the answer as a number. Strings are parsed whole; a string
// with trailing garbage is not a number.
func (v FieldValue) Decimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber, KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.text))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

func (v FieldValue) Time() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, v.text)
	return t, err == nil
}

// IsEmpty reports whether a required field holding this value counts as unanswered.
func (v FieldValue) IsEmpty() bool {
	switch v.kind {
	case KindString, KindDate:
		return strings.TrimSpace(v.text) == ""
	case KindNumber:
		return false
	case KindBool:
		return !v.flag
	}
	raw := bytes.TrimSpace(v.raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// IsNull reports whether v is an explicit JSON null.
func (v FieldValue) IsNull() bool {
	return v.kind == KindJSON && bytes.Equal(bytes.TrimSpace(v.raw), []byte("null"))
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString, KindDate:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(v.text), nil
	case KindBool:
		return json.Marshal(v.flag)
	}
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty field value")
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = ParseValue(s)
	case c == 't' || c == 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = FieldValue{kind: KindNumber, text: n.String()}
	default:
		if !json.Valid(data) {
			return fmt.Errorf("invalid field value %q", data)
		}
		*v = FieldValue{kind: KindJSON, raw: append(json.RawMessage(nil), data...)}
	}
	return nil
}

// FormData is an ordered mapping from field id to answer.
// Keys keep the position of their first insertion.
type FormData struct {
	keys   []string
	values map[string]FieldValue
}

// NewFormData builds a FormData from key/value pairs, in order.
func NewFormData(pairs ...any) FormData {
	var d FormData
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		switch val := pairs[i+1].(type) {
		case FieldValue:
			d.Set(key, val)
		case string:
			d.Set(key, ParseValue(val))
		case bool:
			d.Set(key, BoolValue(val))
		case decimal.Decimal:
			d.Set(key, NumberValue(val))
		case int:
			d.Set(key, NumberValue(decimal.NewFromInt(int64(val))))
		case float64:
			d.Set(key, NumberValue(decimal.NewFromFloat(val)))
		}
	}
	return d
}

func (d FormData) Len() int { return len(d.keys) }

func (d FormData) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d FormData) Get(key string) (FieldValue, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set inserts or overwrites key.
func (d *FormData) Set(key string, v FieldValue) {
	if d.values == nil {
		d.values = make(map[string]FieldValue)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Delete removes key, keeping the order of the remaining keys.
func (d *FormData) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i:i], d.keys[i+1:]...)
			break
		}
	}
}

// Merge copies every entry of other into d, overwriting existing keys.
func (d *FormData) Merge(other FormData) {
	for _, k := range other.keys {
		d.Set(k, other.values[k])
	}
}

// Clone returns a copy that shares no state with d.
func (d FormData) Clone() FormData {
	out := FormData{
		keys:   make([]string, len(d.keys)),
		values: make(map[string]FieldValue, len(d.values)),
	}
	copy(out.keys, d.keys)
	for k, v := range d.values {
		if v.raw != nil {
			v.raw = append(json.RawMessage(nil), v.raw...)
		}
		out.values[k] = v
	}
	return out
}

func (d FormData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := d.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *FormData) UnmarshalJSON(data []byte) error {
	*d = FormData{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("form data must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected form data key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("form data %q: %w", key, err)
		}
		var v FieldValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("form data %q: %w", key, err)
		}
		d.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Value stores FormData as a JSON document column.
func (d FormData) Value() (driver.Value, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *FormData) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = FormData{}
		return nil
	case []byte:
		return d.UnmarshalJSON(v)
	case string:
		return d.UnmarshalJSON([]byte(v))
	}
	return fmt.Errorf("cannot scan %T into FormData", src)
}

func (FormData) GormDataType() string {
	return "jsonb"
}
