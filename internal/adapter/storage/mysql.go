package storage

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/shopyard/gocart/internal/port"
)

const mysqlDuplicateEntry = 1062

// translateErr maps driver errors onto the shared port sentinels so the
// service layer never sees MySQL error numbers.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return port.ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return port.ErrDuplicate
	}
	return err
}
