package helper

import (
	"bytes"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Nullable distinguishes an absent JSON field from an explicit null.
//
//	absent      -> Set=false
//	null        -> Set=true, Value=nil
//	any value   -> Set=true, Value=&v
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// IsNull reports an explicit null.
func (n Nullable[T]) IsNull() bool { return n.Set && n.Value == nil }

// NullableTime accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := sonic.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := ParseFlexibleTime(s)
	if err != nil {
		return err
	}
	n.Value = &t
	return nil
}

func (n NullableTime) IsNull() bool { return n.Set && n.Value == nil }

// ParseFlexibleTime parses RFC3339 (with or without fraction) or a date-only value (UTC midnight).
func ParseFlexibleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
