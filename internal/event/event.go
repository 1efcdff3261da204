package event

import "time"

// Dialect identifies the log line format a code was found in. Each dialect
// has its own code space: CL result codes, EX/FTP reply codes, and Winsock
// socket errors embedded in either.
type Dialect string

const (
	DialectCL      Dialect = "CL"
	DialectEX      Dialect = "EX"
	DialectWinsock Dialect = "WINSOCK"
)

// Category is the coarse classification of a single log event.
type Category string

const (
	Success Category = "SUCCESS"
	Warning Category = "WARNING"
	Error   Category = "ERROR"
	Unknown Category = "UNKNOWN"
)

// Event represents a single classified log line. It is created by a parser,
// never mutated afterwards, and discarded once aggregated.
type Event struct {
	Timestamp   time.Time // zero value means the line carried no parseable date
	Dialect     Dialect
	Code        string // raw code token as it appeared on the line
	Category    Category
	Description string
	SourceIP    string // empty when the line shape carries no IP
	Filename    string // empty when no file path was referenced
	Raw         string // original line, kept for search matching
	Source      string // originating log file path
	Line        int    // 1-based line number within Source
}

// IsTransfer reports whether the event counts toward per-file transfer
// statistics. Any event carrying both a filename and a result code is
// treated as a transfer.
func (e Event) IsTransfer() bool {
	return e.Filename != "" && e.Code != ""
}
