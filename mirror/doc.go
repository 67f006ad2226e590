// Package mirror is a second decode path for the chunked instance format.
// Instead of assembling a tree it keeps every chunk in file order with its
// decoded fields, and keeps every payload byte it could not decode in
// Remaining. A Model can be rendered as JSON or YAML, compared against a
// tree decoded by package codec, edited with a JSON patch and encoded back
// into a file.
package mirror
