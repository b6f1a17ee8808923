// Package errs provides the standardized error types shared by the order service.
//
// Every error kind follows the same shape:
//   - a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...) usable with errors.Is
//   - a struct carrying the offending parameter and an optional cause
//   - New...Error and New...ErrorWithCause constructors
//   - Unwrap returning the sentinel so callers can classify without type switches
//
// The HTTP adapter relies on the sentinels to pick response codes, so domain
// code should wrap or return these types rather than ad hoc errors whenever a
// value is missing, malformed, out of range, or an object cannot be found.
package errs
