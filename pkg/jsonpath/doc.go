// Package jsonpath reads and writes values inside nested mapping/sequence
// data through a small path language: "$" followed by ".field" or "[index]"
// accessors, e.g. "$.address.city" or "$.items[2].name".
//
// Absence is the normal outcome. Find reports a missing value rather than an
// error for unknown keys, out of range indices, non traversable values,
// malformed expressions and sequence roots. SetValue creates missing
// intermediate mappings but never creates sequences: writing through or to an
// index that does not exist leaves the data untouched.
package jsonpath
