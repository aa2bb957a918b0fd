// Package tags models metadata tags as reported by the external tool.
//
// A Key is the (group, tag) pair that identifies an entry; a Value keeps the
// textual representation exactly as extracted next to a normalized, typed
// form (integer, rational, date/time, binary reference, or text) used for
// comparison and arithmetic. Map is the insertion-ordered Key->Entry
// container every Document is built from.
package tags
