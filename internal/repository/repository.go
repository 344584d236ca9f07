// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) inside this directory.
package repository

import "errors"

// ErrNotFound is returned when no record matches an id or filter.
var ErrNotFound = errors.New("record not found")

// Bool returns a pointer to b, for tri-state filter and patch fields.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }
