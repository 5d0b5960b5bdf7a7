// Package word defines the signed integer type that Intcode programs
// operate on. A 64-bit type is required: several reference programs
// multiply two ~25-bit immediates together or emit literals larger than
// 2^32 (spec.md §8's "16-digit output" and "large immediate" scenarios).
package word

// Word is the signed integer type used for every opcode, address, and
// data value in an Intcode program.
type Word = int64
