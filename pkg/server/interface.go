/*
Package server implements msgpack IPC for hint sessions.

A client (usually an editor or terminal plugin) captures the visible text,
sends it to the server, renders the returned hints, and then forwards what
the user types until a hint is picked. Messages are msgpack values written
back to back on stdin and stdout, without any framing.

# IPC

Every request carries an id, echoed in the response, and an op:

	{"id": "1", "op": "hint", "text": "visit https://example.com and /etc/hosts"}

The server scans the text and keeps the result as a session:

	{"id": "1", "session": "6f1c...", "m": [{"id": 0, "h": "a", "p": "url", ...}], "t": 83}

Typed input is resolved against a session:

	{"id": "2", "op": "select", "session": "6f1c...", "input": "a"}
	{"id": "2", "k": "exact", "ids": [0], "sel": "https://example.com"}

Sessions are dropped explicitly with op "drop", or evicted oldest first
once more than max_sessions are held. "health" reports the server state
and "reload" rebuilds the engine from the config file.

Errors come back as an ErrorResponse with an HTTP-like code. A message that
cannot be read as msgpack at all ends the stream, since there is no way to
find the start of the next one.
*/
package server

// Ops understood by the server.
const (
	OpHint   = "hint"
	OpSelect = "select"
	OpDrop   = "drop"
	OpHealth = "health"
	OpReload = "reload"
)

// Request is the envelope for every op. Fields unused by an op are ignored.
type Request struct {
	ID      string `msgpack:"id"`
	Op      string `msgpack:"op"`
	Text    string `msgpack:"text,omitempty"`
	Session string `msgpack:"session,omitempty"`
	Input   string `msgpack:"input,omitempty"`
}

// MatchInfo is one hinted match. Offsets count Unicode scalars.
type MatchInfo struct {
	ID             int    `msgpack:"id"`
	Hint           string `msgpack:"h"`
	Pattern        string `msgpack:"p"`
	Start          int    `msgpack:"s"`
	End            int    `msgpack:"e"`
	HighlightStart int    `msgpack:"hs"`
	HighlightEnd   int    `msgpack:"he"`
	Text           string `msgpack:"text"`
	Selected       string `msgpack:"sel"`
	Degraded       bool   `msgpack:"d,omitempty"`
}

// SpanInfo is a scalar range.
type SpanInfo struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
}

// FailureInfo names a pattern that failed during a scan.
type FailureInfo struct {
	Pattern string `msgpack:"p"`
	Error   string `msgpack:"e"`
}

// HintResponse answers OpHint. TimeTaken is in microseconds.
type HintResponse struct {
	ID        string        `msgpack:"id"`
	Session   string        `msgpack:"session"`
	Matches   []MatchInfo   `msgpack:"m"`
	Degraded  []SpanInfo    `msgpack:"deg,omitempty"`
	Failures  []FailureInfo `msgpack:"f,omitempty"`
	TimeTaken int64         `msgpack:"t"`
}

// SelectResponse answers OpSelect. Kind is "no_match", "partial" or "exact";
// Selected holds the text to act on when Kind is "exact".
type SelectResponse struct {
	ID       string `msgpack:"id"`
	Kind     string `msgpack:"k"`
	IDs      []int  `msgpack:"ids"`
	Selected string `msgpack:"sel,omitempty"`
}

// StatusResponse answers OpDrop, OpHealth and OpReload, and announces readiness.
type StatusResponse struct {
	ID       string   `msgpack:"id,omitempty"`
	Status   string   `msgpack:"status"`
	Sessions int      `msgpack:"sessions"`
	Patterns []string `msgpack:"patterns,omitempty"`
	Alphabet string   `msgpack:"alphabet,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
