// Package components registers the built-in "core" component set: layout
// containers, text, form controls and the select list. Only descriptors,
// property schemas and parse hooks live here; rendering belongs to the host.
package components
