// Package postgres implements the internal/store interfaces on PostgreSQL.
// It owns the SQL, the row scanning and the translation of driver errors
// into the store package's sentinel errors; nothing outside this package
// sees a database detail.
package postgres
