// Package logs reads the server log file kept in paths.log_dir.
//
// Last returns the trailing lines with bounded memory and Follow polls for
// lines appended afterwards until its context ends. Both tolerate a missing
// file so `shelfscan logs` works before the server has ever run.
package logs
