// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned by ParseID for anything but a positive base-10
// integer.
var ErrInvalidID = errors.New("id must be a positive integer")

// ParseID converts a path segment into a resource id.
//
// Example:
//
//	id, _ := utils.ParseID("42") // returns 42
//	_, err := utils.ParseID("0")  // ErrInvalidID
//	_, err = utils.ParseID("x")   // ErrInvalidID
func ParseID(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}
