// Package commands defines the uimodel CLI.
//
// Commands
//
//   - components   List the registered component types
//   - props        Show the property sheet of a component type
//   - parse        Parse markup or an object-form model and print it
//   - scaffold     Build a default form from an OpenAPI operation
//   - run          Instantiate a model, dispatch events and print the data model
//   - play         Edit bound values and fire events interactively
//
// The root command configures the slog logger and the tracer provider before
// any subcommand runs and flushes spans once it returns.
package commands
