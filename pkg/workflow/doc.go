// Package workflow binds a UI model tree and its data model to named script
// functions.
//
// An Engine moves through Uninitialized, VariablesResolved, Bound, Active and
// TornDown. ResolveVariables runs the configured resolver exactly once, Bind
// seeds the vars with the resolved tree and the data model, and Dispatch
// routes component events to script functions. Dispatches run concurrently
// and are never serialised or cancelled; engines that share a data model see
// each other's writes immediately because the data model is shared by
// reference.
package workflow
