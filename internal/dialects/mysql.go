package dialects

import "strings"

// MySQL caps prepared statement placeholders at 65535.
const mysqlMaxParams = 65535

var mysqlTypes = map[TypeTag]string{
	TagI8:            "INTEGER",
	TagI16:           "INTEGER",
	TagI32:           "INTEGER",
	TagU8:            "INTEGER",
	TagU16:           "INTEGER",
	TagU32:           "BIGINT",
	TagI64:           "BIGINT",
	TagU64:           "BIGINT",
	TagUsize:         "BIGINT",
	TagBool:          "BOOL",
	TagF32:           "FLOAT",
	TagF64:           "DOUBLE",
	TagString:        "TEXT",
	TagDateTime:      "DATETIME",
	TagNaiveDateTime: "DATETIME",
	TagNaiveDate:     "DATE",
}

// quoteMySQL quotes a MySQL identifier using backticks.
func quoteMySQL(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
