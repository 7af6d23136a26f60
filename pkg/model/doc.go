// Package model defines the UI model tree shared by the registry, the markup
// parser and the workflow engine. A UIModel node names a component type,
// carries a container property bag (layout directives owned by the parent)
// and an item property bag (the component's own behaviour), and optionally
// owns children.
//
// The JSON form is canonical. Property bags are always emitted, keys sorted,
// while the children field keeps the distinction between an absent list and
// an explicitly empty one so documents round-trip verbatim.
package model
