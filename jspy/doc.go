// Package jspy implements an embeddable interpreter for a small scripting
// language with Python-like syntax and a JSON-like data model:
//   - Function definitions via `def name(args):` with an indented body, and
//     arrow functions `x => expr` or `(a, b) => expr`.
//   - Literals for numbers, strings, booleans, null, arrays and objects.
//   - Arithmetic (+, -, *, /, %), comparisons and the logical operators
//     and, or and not. `+` concatenates when either side is a string.
//   - Property access via `obj.name`, indexing via `obj[expr]`, and method
//     calls on objects, arrays, strings and date-times.
//   - Control flow with if/elif/else, for-in, while, break, continue and
//     return.
//   - Imports resolved through a host supplied PackageLoader.
//
// Hosts extend the language with BuiltinFuncs. A host function may return a
// Future; the interpreter awaits it before evaluation continues, so scripts
// observe asynchronous results as plain values.
package jspy
