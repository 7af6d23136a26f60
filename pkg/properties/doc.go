// Package properties holds the declarative metadata describing the properties
// a component accepts. Schemas are pure data: the registry stores them per
// component and design-time tooling groups them by category. The shared
// Catalog lets distinct component packages extend a common property set
// without colliding, keying extensions as "package:component:property".
package properties
