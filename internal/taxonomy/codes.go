package taxonomy

import (
	"sort"

	"github.com/brainstein/loghound/internal/event"
)

// Reply code descriptions, per the Globalscape EFT status/error code
// reference. FTP first, then HTTP, SFTP, and Winsock; later tables override
// earlier ones where a code appears twice (e.g. 500 reads as the HTTP
// description).

var ftpDescs = map[int]string{
	// 100 series - requested action initiated
	110: "Restart marker reply",
	120: "Service ready in nn minutes",
	125: "Data connection already open; transfer starting",
	150: "File status okay; about to open data connection",

	// 200 series - requested action completed
	200: "Command okay",
	202: "Command not implemented, superfluous at this site",
	211: "System status, or system help reply",
	212: "Directory status",
	213: "File status",
	214: "Help message",
	215: "NAME system type",
	220: "Service ready for new user",
	221: "Service closing control connection",
	225: "Data connection open; no transfer in progress",
	226: "Closing data connection (file transfer successful)",
	227: "Entering Passive Mode",
	230: "User logged in, proceed",
	250: "Requested file action okay, completed",
	257: "PATHNAME created",

	// 300 series - further information needed
	331: "User name okay, need password",
	332: "Need account for login",
	350: "Requested file action pending further information",

	// 400 series - temporary errors
	421: "Service not available, closing control connection",
	425: "Cannot open data connection",
	426: "Connection closed; transfer aborted",
	450: "Requested file action not taken (file busy)",
	451: "Requested action aborted: local error in processing",
	452: "Requested action not taken (insufficient storage)",

	// 500 series - permanent errors
	500: "Syntax error, command unrecognized",
	501: "Syntax error in parameters or arguments",
	502: "Command not implemented",
	503: "Bad sequence of commands",
	504: "Command not implemented for that parameter",
	530: "Not logged in (invalid credentials)",
	532: "Need account for storing files",
	550: "Requested action not taken (file unavailable/not found/no access)",
	552: "Requested file action aborted (storage allocation exceeded)",
	553: "Requested action not taken (file name not allowed)",
}

var httpDescs = map[int]string{
	400: "Bad Request (malformed header or query)",
	401: "Unauthorized (login failed)",
	403: "Forbidden (permission denied)",
	404: "Not Found (file/folder does not exist)",
	406: "Not Acceptable (bad header value)",
	408: "Request Time-out (socket timeout)",
	411: "Length Required (invalid file length)",
	412: "Precondition Failed (session timeout)",
	413: "Request Entity Too Large (quota exceeded)",
	414: "Request-URI Too Large (URI exceeds max length)",
	500: "Internal Server Error (disk full or abort)",
	501: "Not Implemented (unimplemented request method)",
}

var sftpDescs = map[int]string{
	0: "Operation completed successfully",
	1: "End of file reached",
	2: "File does not exist",
	3: "Insufficient privileges",
	4: "Operation failed for other reason",
	5: "Badly formatted message (protocol error)",
	6: "Connection not established (timeout)",
	7: "Connection to server lost",
	8: "Timeout occurred",
}

var winsockDescs = map[int]string{
	10054: "WSAECONNRESET - Connection reset by peer",
	10060: "WSAETIMEDOUT - Connection timed out",
	10061: "WSAECONNREFUSED - Connection refused",
	10066: "WSAENOTEMPTY - Directory not empty",
	10068: "WSAEUSERS - User quota exceeded",
	11001: "WSAHOST_NOT_FOUND - Host not found",
}

// builtinRules are the category rules evaluated before dialect defaults.
// Exact rules are matched before range rules regardless of list order.
func builtinRules() []Rule {
	return []Rule{
		// CL result codes: 0 success, 331 needs-password warning, anything
		// else is an error. The error default lives in Resolve.
		{Dialect: event.DialectCL, From: 0, Category: event.Success, Description: "Operation completed successfully"},
		{Dialect: event.DialectCL, From: 331, Category: event.Warning},

		// EX/FTP reply codes. Exact exceptions first.
		{Dialect: event.DialectEX, From: 331, Category: event.Warning},
		{Dialect: event.DialectEX, From: 530, Category: event.Error, Description: httpOrFTP(530)},
		{Dialect: event.DialectEX, From: 100, To: 199, Category: event.Success},
		{Dialect: event.DialectEX, From: 200, To: 299, Category: event.Success},
		{Dialect: event.DialectEX, From: 300, To: 399, Category: event.Warning},
		{Dialect: event.DialectEX, From: 400, To: 499, Category: event.Error, Description: "Temporary or client error"},
		{Dialect: event.DialectEX, From: 500, To: 599, Category: event.Error, Description: "Permanent server error"},

		// Winsock socket errors.
		{Dialect: event.DialectWinsock, From: 10000, To: 11999, Category: event.Error, Description: "Socket-level error"},
	}
}

func httpOrFTP(code int) string {
	if d, ok := ftpDescs[code]; ok {
		return d
	}
	return httpDescs[code]
}

// New builds the catalog from the built-in rules plus any overlay rules.
// Overlay rules are consulted first within their precedence class, so an
// exact overlay rule overrides a built-in exact rule for the same code.
func New(overlay ...Rule) *Catalog {
	c := &Catalog{
		exact:  make(map[event.Dialect][]Rule),
		ranged: make(map[event.Dialect][]Rule),
		descs:  make(map[int]string),
	}

	for _, m := range []map[int]string{ftpDescs, httpDescs, sftpDescs, winsockDescs} {
		for code, desc := range m {
			c.descs[code] = desc
		}
	}

	// Overlay descriptions override the built-in table.
	for _, r := range overlay {
		if r.Exact() && r.Description != "" {
			c.descs[r.From] = r.Description
		}
	}

	rules := append(append([]Rule{}, overlay...), builtinRules()...)
	for _, r := range rules {
		if r.Exact() {
			c.exact[r.Dialect] = append(c.exact[r.Dialect], r)
		} else {
			c.ranged[r.Dialect] = append(c.ranged[r.Dialect], r)
		}
	}
	return c
}

// Resolve classifies a code within a dialect. It is total: codes not
// covered by any rule fall to the dialect default (ERROR for CL, where any
// unlisted result code means a failed operation, UNKNOWN for EX and
// Winsock codes outside every known range).
func (c *Catalog) Resolve(d event.Dialect, code int) (event.Category, string) {
	for _, r := range c.exact[d] {
		if r.Matches(code) {
			return r.Category, c.describe(r, code)
		}
	}
	for _, r := range c.ranged[d] {
		if r.Matches(code) {
			return r.Category, c.describe(r, code)
		}
	}
	if d == event.DialectCL {
		return event.Error, c.Describe(code)
	}
	return event.Unknown, c.Describe(code)
}

func (c *Catalog) describe(r Rule, code int) string {
	if d, ok := c.descs[code]; ok {
		return d
	}
	if r.Description != "" {
		return r.Description
	}
	return "Unknown code"
}

// Describe returns the description for a code independent of dialect.
func (c *Catalog) Describe(code int) string {
	if d, ok := c.descs[code]; ok {
		return d
	}
	return "Unknown code"
}

// Known returns every code with a built-in description, ascending.
func (c *Catalog) Known() []int {
	codes := make([]int, 0, len(c.descs))
	for code := range c.descs {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
