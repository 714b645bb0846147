// Package routing loads the routing-number reference database and runs the
// state filter and single lookups against it.
//
// The database is a headerless CSV file with the columns
//
//	routing_number, name, addr1, addr2, addr3_or_zip, state
//
// A filter report lists, in input order, every known routing number whose
// state differs from the target state, followed by every routing number
// that is not in the database.
package routing
