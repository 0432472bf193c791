// Package transform rewrites the string fields of decoded request models.
// It is meant for [paramcheck.Normalizer] implementations, which run after
// a body is decoded and before its rules are checked.
package transform
