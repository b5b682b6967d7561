// Package config loads clientbook configuration from YAML or TOML files.
//
// The format is chosen by file extension (.yaml, .yml or .toml). Before
// decoding, ${VAR} references are replaced with the value of the named
// environment variable, or the empty string when it is unset. Keys absent
// from the file take their defaults. A key that is present but empty or
// null stays empty and fails validation when it is required. Unknown keys
// are rejected.
//
//	database:
//	  driver: sqlite3
//	  name: ./clients.db
//	  password: ${CLIENTBOOK_PASSWORD}
//	logging:
//	  level: info
//	  format: text
package config
