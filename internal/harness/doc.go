// Package harness runs store scenarios described in YAML.
//
// A scenario seeds a fresh in-memory database, performs a flow of store
// operations, checks each step's outcome and then evaluates assertions
// against the final table. Every step is recorded in a trace that can be
// compared against a golden file.
//
// # Scenario Format
//
//	name: add_phone_then_update
//	description: "A phone appended in memory is persisted by Update"
//	driver: sqlite3            # optional: sqlite3 (default) or sqlite
//	setup:
//	  - first_name: Петр
//	    phones: ["+7 333 222-11-00"]
//	flow:
//	  - op: update
//	    id: 1
//	    changes: { phones: ["+7 333 222-11-00", "+7 916 555-77-38"] }
//	    expect: { applied: true }
//	  - op: get
//	    id: 1
//	    expect:
//	      found: true
//	      client: { phones: ["+7 333 222-11-00", "+7 916 555-77-38"] }
//	assertions:
//	  - type: row_count
//	    count: 1
//
// # Operations
//
//   - insert: inserts client; expect.id checks the generated id
//   - get: FindByID on id; expect.found and expect.client
//   - find: FindByCriteria on criteria; expect.ids lists the matching ids in order
//   - update: Update id with changes; expect.applied
//   - remove: Remove id
//   - count: expect.count
//
// Any step may set expect.error to "persistence" or "connection" to require
// that kind of failure.
//
// # Assertion Types
//
//   - final_state: the row with id matches client (or is absent when exists is false)
//   - row_count: the table holds exactly count rows
//   - trace_count: op appears exactly count times in the trace
package harness
