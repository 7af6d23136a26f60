// Package markup turns a tag/attribute document into a UI model tree.
//
// Each element becomes a node whose type is the tag name (prefixed tags such
// as <bootstrap:container> keep the prefix and resolve package components).
// Attributes are partitioned statically: the legacy layout directives listed
// in properties.ContainerDirectives become container properties, everything
// else item properties. Components may register a parse hook to interpret
// their own child elements and text content.
//
// A document is atomic. Parse never returns a partial tree: any failure is
// logged and yields nil. ParseStrict exposes the error instead.
package markup
