package utils

import (
	"cmp"
	"strings"
)

func Ptr[T any](v T) *T {
	return &v
}

func OrZero[T comparable](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// Copies the pointee so the result never aliases v
func ClonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Returns nil on an empty or all whitespace string
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Order independent key for a pair of ids, "a-b" with a <= b
func PairKey(id1, id2 string) string {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return id1 + "-" + id2
}

func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
