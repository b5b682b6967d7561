// Package seed loads client fixtures for bulk insertion.
//
// Fixtures are CUE or YAML files holding a top-level clients list:
//
//	clients: [
//		{first_name: "Иван", last_name: "Ивановский", phones: ["+7 211 122-17-12"]},
//		{first_name: "Сидр", email: "mister-sidr@ne-pey.ego"},
//	]
//
// Every entry is checked against the column limits of the store before
// anything is returned, so a fixture that loads cleanly inserts cleanly.
// Unknown fields are rejected.
package seed
