// Package format names the text formats used for schema files and
// diagnostic mirror documents.
package format
