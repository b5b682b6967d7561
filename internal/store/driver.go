package store

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	mattn "github.com/mattn/go-sqlite3"
	modernc "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	// DriverCGO is github.com/mattn/go-sqlite3. The default.
	DriverCGO = "sqlite3"

	// DriverPureGo is modernc.org/sqlite, which needs no C toolchain.
	DriverPureGo = "sqlite"
)

// Drivers lists the accepted Config.Driver values.
var Drivers = []string{DriverCGO, DriverPureGo}

// Config holds the store's construction parameters. They are opaque to the
// store: Name is handed to the driver as-is and the credentials are only
// forwarded, never checked.
type Config struct {
	// Driver is one of Drivers. Empty means DriverCGO.
	Driver string

	// Name is the database file path, or ":memory:".
	Name string

	// User and Password are forwarded to go-sqlite3 as _auth_user and
	// _auth_pass when both are set. They have no effect unless the driver
	// was built with user authentication; modernc.org/sqlite ignores them.
	User     string
	Password string
}

func (c Config) driver() (string, error) {
	switch c.Driver {
	case "":
		return DriverCGO, nil
	case DriverCGO, DriverPureGo:
		return c.Driver, nil
	default:
		return "", fmt.Errorf("unknown driver %q: must be one of %s", c.Driver, strings.Join(Drivers, ", "))
	}
}

// dsn returns the data source name for driver.
func (c Config) dsn(driver string) string {
	if driver != DriverCGO || c.User == "" || c.Password == "" {
		return c.Name
	}
	params := url.Values{}
	params.Set("_auth_user", c.User)
	params.Set("_auth_pass", c.Password)

	sep := "?"
	if strings.Contains(c.Name, "?") {
		sep = "&"
	}
	return c.Name + sep + params.Encode()
}

// resultCode extracts the primary SQLite result code from a driver error.
func resultCode(err error) (mattn.ErrNo, bool) {
	var cgoErr mattn.Error
	if errors.As(err, &cgoErr) {
		return cgoErr.Code, true
	}
	var pureErr *modernc.Error
	if errors.As(err, &pureErr) {
		return mattn.ErrNo(pureErr.Code() & 0xff), true
	}
	return 0, false
}
