// Package codec decodes files of the chunked binary instance format into a
// dom.Tree and encodes trees back into files.
//
// Decoding is a single left to right scan. Each chunk is interpreted to
// completion against a per call session holding the type table and the
// referent map; the parent links and reference properties collected on the
// way are resolved only once END has been read, since a chunk may refer to
// instances declared after it.
//
// Problems the format tolerates (unknown chunks, unknown value types,
// properties for undeclared types, duplicate type ids, disagreements with
// the schema) are recorded as Diagnostics and logged. Framing errors and
// referential errors fail the whole decode.
package codec
