package types

import "errors"

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a record with the same unique key already exists.
var ErrDuplicate = errors.New("record already exists")
