// Package chunk reads and writes the outer container of binary place and
// model files.
//
// Format: [file header: 32 bytes][chunk]...[END chunk]
//
// Every chunk starts with a 16 byte header: a 4 byte name, the compressed
// body length, the decompressed length and a reserved word which must be
// zero, all little endian. A compressed length of zero means the body is
// stored raw. The scan stops at the END chunk; bytes after it are never read.
package chunk
