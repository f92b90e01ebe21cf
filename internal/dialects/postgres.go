package dialects

import "strconv"

// Bind messages carry the parameter count in 16 bits.
const postgresMaxParams = 65535

var postgresTypes = map[TypeTag]string{
	TagI8:            "SMALLINT",
	TagI16:           "SMALLINT",
	TagU8:            "SMALLINT",
	TagU16:           "INTEGER",
	TagI32:           "INTEGER",
	TagU32:           "BIGINT",
	TagI64:           "BIGINT",
	TagU64:           "BIGINT",
	TagUsize:         "BIGINT",
	TagBool:          "BOOL",
	TagF32:           "FLOAT4",
	TagF64:           "FLOAT8",
	TagString:        "TEXT",
	TagDateTime:      "TIMESTAMPTZ",
	TagNaiveDateTime: "TIMESTAMP",
	TagNaiveDate:     "DATE",
}

// postgresPlaceholder returns the 1-based "$n" placeholder for index i.
func postgresPlaceholder(i int) string {
	return "$" + strconv.Itoa(i+1)
}
