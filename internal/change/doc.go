// Package change implements sparse change-sets for client records and the
// pure merge that applies them.
//
// A Set names only the fields a caller intends to modify. Merge copies the
// current record, overwrites exactly those fields and returns the result; the
// input record is never mutated and the merge cannot fail. Setting Phones to
// an empty list clears the phone sequence, which is different from not
// mentioning phones at all.
//
// Field names are a closed set. FromMap, the entry point for loosely typed
// input, rejects anything else with InvalidFieldError.
package change
