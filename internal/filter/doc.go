// Package filter compiles client search criteria into one parameterized SQL
// predicate.
//
// Every criterion is optional. An unset criterion is bound as SQL NULL and the
// predicate treats a NULL parameter as "no constraint":
//
//	(?1 IS NULL OR clients.first_name = ?1)
//	AND (?2 IS NULL OR clients.last_name = ?2)
//	AND (?3 IS NULL OR clients.email = ?3)
//	AND (?4 IS NULL OR EXISTS (SELECT 1 FROM json_each(clients.phones) WHERE json_each.value = ?4))
//
// The predicate text never changes with the criteria, so it is compiled and
// prepared once and only the argument list varies per call. Values are never
// interpolated into SQL. Unset is a real NULL, not an empty string: Eq("") is
// a filter for rows whose field is empty.
//
// Criteria with nothing set match every row. That is a full table scan and is
// intentional; Describe reports it so callers can see the cost.
package filter
