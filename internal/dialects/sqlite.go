package dialects

import "strings"

// SQLITE_MAX_VARIABLE_NUMBER default since 3.32.0.
const sqliteMaxParams = 32766

var sqliteTypes = map[TypeTag]string{
	TagI8:            "INTEGER",
	TagI16:           "INTEGER",
	TagI32:           "INTEGER",
	TagI64:           "INTEGER",
	TagU8:            "INTEGER",
	TagU16:           "INTEGER",
	TagU32:           "INTEGER",
	TagU64:           "INTEGER",
	TagUsize:         "INTEGER",
	TagBool:          "BOOL",
	TagF32:           "FLOAT",
	TagF64:           "DOUBLE",
	TagString:        "TEXT",
	TagDateTime:      "DATETIME",
	TagNaiveDateTime: "DATETIME",
	TagNaiveDate:     "DATE",
}

// quoteSQLite quotes a SQLite identifier using backticks, which SQLite accepts
// for MySQL compatibility.
func quoteSQLite(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
