package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	binarySubtypeUUID    byte = 0x04
	binarySubtypeUUIDOld byte = 0x03
)

// reader looks up fields of one (possibly nested) document and turns
// lookup failures into DecodeErrors carrying the full field path.
type reader struct {
	record string
	path   string
	d      bson.D
	m      bson.M
}

func newReader(record string, doc bson.D) reader {
	return reader{record: record, d: doc}
}

func (r reader) field(key string) string {
	if r.path == "" {
		return key
	}
	return r.path + "." + key
}

func (r reader) lookup(key string) (interface{}, error) {
	if r.m != nil {
		if v, ok := r.m[key]; ok {
			return v, nil
		}
		return nil, missingField(r.record, r.field(key))
	}
	for _, e := range r.d {
		if e.Key == key {
			return e.Value, nil
		}
	}
	return nil, missingField(r.record, r.field(key))
}

func (r reader) int64(key string) (int64, error) {
	v, err := r.lookup(key)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, typeMismatch(r.record, r.field(key), "int64", v)
	}
	return n, nil
}

func (r reader) string(key string) (string, error) {
	v, err := r.lookup(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(r.record, r.field(key), "string", v)
	}
	return s, nil
}

func (r reader) float64(key string) (float64, error) {
	v, err := r.lookup(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, typeMismatch(r.record, r.field(key), "double", v)
	}
	return f, nil
}

// uuid accepts binary subtype 4 (and the legacy subtype 3) or a UUID string.
func (r reader) uuid(key string) (uuid.UUID, error) {
	v, err := r.lookup(key)
	if err != nil {
		return uuid.Nil, err
	}
	switch val := v.(type) {
	case primitive.Binary:
		if val.Subtype != binarySubtypeUUID && val.Subtype != binarySubtypeUUIDOld {
			return uuid.Nil, &DecodeError{
				Kind:   ErrMalformedIdentifier,
				Record: r.record,
				Field:  r.field(key),
				Err:    fmt.Errorf("binary subtype 0x%02x", val.Subtype),
			}
		}
		id, err := uuid.FromBytes(val.Data)
		if err != nil {
			return uuid.Nil, &DecodeError{Kind: ErrMalformedIdentifier, Record: r.record, Field: r.field(key), Err: err}
		}
		return id, nil
	case string:
		id, err := uuid.Parse(val)
		if err != nil {
			return uuid.Nil, &DecodeError{Kind: ErrMalformedIdentifier, Record: r.record, Field: r.field(key), Err: err}
		}
		return id, nil
	default:
		return uuid.Nil, typeMismatch(r.record, r.field(key), "binary", v)
	}
}

// time returns the stored instant in UTC at millisecond resolution.
func (r reader) time(key string) (time.Time, error) {
	v, err := r.lookup(key)
	if err != nil {
		return time.Time{}, err
	}
	switch val := v.(type) {
	case primitive.DateTime:
		return time.UnixMilli(int64(val)).UTC(), nil
	case time.Time:
		return val.UTC().Truncate(time.Millisecond), nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, val)
		if err != nil {
			return time.Time{}, &DecodeError{Kind: ErrMalformedTimestamp, Record: r.record, Field: r.field(key), Err: err}
		}
		return t.UTC().Truncate(time.Millisecond), nil
	default:
		return time.Time{}, typeMismatch(r.record, r.field(key), "datetime", v)
	}
}

func (r reader) document(key string) (reader, error) {
	v, err := r.lookup(key)
	if err != nil {
		return reader{}, err
	}
	return r.nested(r.field(key), v)
}

func (r reader) nested(path string, v interface{}) (reader, error) {
	switch val := v.(type) {
	case bson.D:
		return reader{record: r.record, path: path, d: val}, nil
	case bson.M:
		return reader{record: r.record, path: path, m: val}, nil
	default:
		return reader{}, typeMismatch(r.record, path, "embedded document", v)
	}
}

// array returns the sub-documents stored under key, in stored order.
func (r reader) array(key string) ([]reader, error) {
	v, err := r.lookup(key)
	if err != nil {
		return nil, err
	}
	var items []interface{}
	switch val := v.(type) {
	case bson.A:
		items = val
	case []interface{}:
		items = val
	case []bson.D:
		items = make([]interface{}, len(val))
		for i := range val {
			items[i] = val[i]
		}
	default:
		return nil, typeMismatch(r.record, r.field(key), "array", v)
	}

	out := make([]reader, 0, len(items))
	for i, item := range items {
		sub, err := r.nested(r.field(key)+"."+strconv.Itoa(i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case int64:
		return "int64"
	case int32:
		return "int32"
	case float64:
		return "double"
	case string:
		return "string"
	case bool:
		return "bool"
	case bson.D, bson.M:
		return "embedded document"
	case bson.A, []interface{}, []bson.D:
		return "array"
	case primitive.Binary:
		return "binary"
	case primitive.DateTime, time.Time:
		return "datetime"
	case primitive.ObjectID:
		return "objectId"
	case primitive.Null:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
