// Package script is a small action-script interpreter for workflow handlers.
//
// A script source is a YAML (or JSON) mapping from function name to a list
// of steps:
//
//	countryChanged:
//	  - set: {path: $.city, value: null}
//	  - if: dataModel.country == "uk"
//	    then:
//	      - set: {path: $.cities, value: [London, Liverpool]}
//	    else:
//	      - call: clearCities
//	  - copy: {from: item.value, to: $.selected}
//	  - alert: "Selected {{ dataModel.country }}"
//	  - return: {from: $.city}
//
// References starting with "$" address the data model; any other reference
// starts with a scope variable (dataModel, rootUIModel, vars or an event
// parameter) followed by path accessors. Conditions support ==, !=, <, <=,
// >, >=, &&, ||, ! and parentheses.
package script
