// Package variables resolves placeholders in UI model properties before a
// workflow engine binds the model. Property strings are pongo2 templates
// rendered with two context values: env (process environment) and vars
// (caller supplied variables), so "{{ env.API_URL }}/users" or
// "{{ vars.locale|upper }}" expand in place.
package variables
