//go:build !cgo

package core

func cgoUniqueViolation(error) bool { return false }
