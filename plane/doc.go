// Package plane implements the byte-plane transposition used for numeric
// arrays inside chunk payloads.
//
// An array of N fixed-width elements is stored plane by plane: the most
// significant byte of every element, then the next byte of every element,
// and so on. Each element is big endian before transposition. Signed
// integers are sign folded first so that small magnitudes of either sign
// produce mostly-zero planes, and floats have their bits rotated left by one
// so the sign bit lands in the lowest plane.
//
// Referent arrays are a further layer on top of Int32 arrays: each stored
// element is the difference from the previous element of the same array.
package plane
