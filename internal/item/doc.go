// Package item defines a to-do item and parses one from its raw four-part
// text form.
//
// The raw form is split on the first three line breaks only:
//
//	Write report          <- name
//	3d                    <- deadline expression, label, or empty
//	[work, q4]            <- tag list literal
//	first line            <- description, kept verbatim
//	second line
//
// # Deadlines
//
// A deadline is one of three variants:
//   - absent: no deadline at all ("timeless")
//   - a timestamp: now plus a translated relative expression, stored as unix seconds
//   - a label: free text shown verbatim instead of a computed date
//
// # Tag lists
//
// The tag segment must be a list literal. Accepted forms:
//   - blank: no tags
//   - parenthesized: (a b c)
//   - YAML sequence: [a, b, c]
//
// Anything else (a bare word, a map, nested lists, invalid YAML) is a parse
// error and aborts the push.
//
// # Record format
//
// Records are JSON with 2-space indentation and a trailing newline. The
// deadline field is null, an integer, or a string depending on the variant.
package item
