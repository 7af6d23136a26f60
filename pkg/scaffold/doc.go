// Package scaffold derives starter UI models from OpenAPI operations. Each
// request body property becomes a bound control: enums become selects,
// booleans checkboxes, long strings textareas, nested objects sections, and
// everything else inputs. Defaults from the schema seed the returned data
// model.
package scaffold
