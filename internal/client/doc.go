// Package client defines the in-memory client record.
//
// A Client is a plain value: constructing, mutating or viewing one never
// touches storage. Changes reach the database only through store.Update.
//
// # Phones
//
// Phones is an ordered sequence. Duplicates are allowed and insertion order is
// significant; the store preserves it verbatim. A Client never carries a nil
// phone list once built with New, and the store always returns an empty slice
// rather than nil.
package client
