// Package registry maps component type keys to descriptors. A Registry is an
// explicit value: build one, register every component during start up, then
// share it read-only with the markup parser and design-time tooling.
//
// Keys are "package:name", or the bare name for the built-in "core" package,
// so <select> resolves the core select while <bootstrap:select> resolves a
// plugin component.
package registry
