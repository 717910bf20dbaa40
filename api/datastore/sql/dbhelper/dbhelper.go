package dbhelper

import (
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var sqlHelpers []Helper

//Add registers a new SQL helper
func Add(helper Helper) {
	logrus.Debugf("Registering DB helper %s", helper)
	sqlHelpers = append(sqlHelpers, helper)
}

//Helper provides DB-specific SQL capabilities
type Helper interface {
	fmt.Stringer
	// Supports reports whether the helper handles the url scheme or sqlx driver name.
	Supports(driverName string) bool
	// DriverName is the database/sql driver to open.
	DriverName() string
	// PreInit turns the datastore url into a driver DSN.
	PreInit(url *url.URL) (string, error)
	PostCreate(db *sqlx.DB) (*sqlx.DB, error)
	CheckTableExists(tx *sqlx.Tx, table string) (bool, error)
	IsDuplicateKeyError(err error) bool
	// RandomFunc is the SQL expression ordering rows randomly.
	RandomFunc() string
}

//GetHelper returns a helper for a specific driver
func GetHelper(driverName string) (Helper, bool) {
	for _, helper := range sqlHelpers {
		if helper.Supports(driverName) {
			return helper, true
		}
	}
	return nil, false
}
