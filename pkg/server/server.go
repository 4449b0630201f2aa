package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bastiangx/hintserve/internal/logger"
	"github.com/bastiangx/hintserve/pkg/engine"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrReloadDisabled is returned by Reload when no reload function was configured.
var ErrReloadDisabled = errors.New("config reload is not enabled")

// Options configures a Server.
type Options struct {
	// MaxTextBytes rejects larger captures; 0 means no limit.
	MaxTextBytes int
	// MaxSessions bounds the number of held hint sets; 0 means 1.
	MaxSessions int
	// Reload rebuilds the engine from configuration. Nil disables reloads.
	Reload func() (*engine.Engine, error)
	Logger *log.Logger
}

// Server handles msgpack IPC for hint sessions
type Server struct {
	mu     sync.RWMutex
	engine *engine.Engine

	opts     Options
	sessions *sessionStore
	log      *log.Logger

	dec *msgpack.Decoder
	out *bufio.Writer
	enc *msgpack.Encoder
}

// NewServer creates a server using stdin/stdout for IPC
func NewServer(e *engine.Engine, opts Options) *Server {
	return New(e, opts, os.Stdin, os.Stdout)
}

// New creates a server reading requests from r and writing responses to w.
func New(e *engine.Engine, opts Options, r io.Reader, w io.Writer) *Server {
	l := opts.Logger
	if l == nil {
		l = logger.Default("server")
	}
	out := bufio.NewWriter(w)
	return &Server{
		engine:   e,
		opts:     opts,
		sessions: newSessionStore(opts.MaxSessions),
		log:      l,
		dec:      msgpack.NewDecoder(r),
		out:      out,
		enc:      msgpack.NewEncoder(out),
	}
}

// Start announces readiness and serves requests until the input ends.
// It returns nil on a clean end of input.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")
	s.sendResponse(s.status("", "ready"))

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Reading from stdin: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

// Reload swaps in a freshly built engine. On failure the current engine
// stays in place. Existing sessions keep the hints they were created with.
func (s *Server) Reload() error {
	if s.opts.Reload == nil {
		return ErrReloadDisabled
	}
	e, err := s.opts.Reload()
	if err != nil {
		s.log.Errorf("Config reload failed, keeping previous configuration: %v", err)
		return err
	}
	s.mu.Lock()
	s.engine = e
	s.mu.Unlock()
	s.log.Infof("Reloaded config: %d pattern(s), alphabet %q", len(e.Patterns()), e.Alphabet().String())
	return nil
}

func (s *Server) currentEngine() *engine.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var request Request
	if err := msgpack.Unmarshal(raw, &request); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid msgpack request", 400)
		return
	}

	switch request.Op {
	case OpHint:
		s.handleHint(request)
	case OpSelect:
		s.handleSelect(request)
	case OpDrop:
		s.handleDrop(request)
	case OpHealth:
		s.sendResponse(s.status(request.ID, "ok"))
	case OpReload:
		if err := s.Reload(); err != nil {
			s.sendError(request.ID, fmt.Sprintf("Reload failed: %v", err), 500)
			return
		}
		s.sendResponse(s.status(request.ID, "reloaded"))
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

func (s *Server) handleHint(request Request) {
	if limit := s.opts.MaxTextBytes; limit > 0 && len(request.Text) > limit {
		s.sendError(request.ID, fmt.Sprintf("Text exceeds maximum size of %d bytes", limit), 413)
		s.log.Debugf("Rejected %d byte capture", len(request.Text))
		return
	}

	start := time.Now()
	result := s.currentEngine().Run(request.Text)
	elapsed := time.Since(start)

	id, evicted := s.sessions.add(result)
	if evicted != "" {
		s.log.Debugf("Evicted session %s", evicted)
	}
	for _, f := range result.Failures {
		s.log.Warnf("Pattern %q failed: %v", f.Pattern, f.Err)
	}

	s.sendResponse(newHintResponse(request.ID, id, result, elapsed))
}

func (s *Server) handleSelect(request Request) {
	result, ok := s.session(request)
	if !ok {
		return
	}

	res := result.Query(request.Input)
	response := SelectResponse{
		ID:   request.ID,
		Kind: res.Kind.String(),
		IDs:  res.IDs,
	}
	if response.IDs == nil {
		response.IDs = []int{}
	}
	if id, ok := res.ID(); ok {
		if m, ok := result.Match(id); ok {
			response.Selected = m.Selected
		}
	}
	s.sendResponse(response)
}

func (s *Server) handleDrop(request Request) {
	if _, ok := s.session(request); !ok {
		return
	}
	s.sessions.drop(request.Session)
	s.sendResponse(s.status(request.ID, "dropped"))
}

// session finds the session named by request, replying with an error when it is missing.
func (s *Server) session(request Request) (*engine.Result, bool) {
	if request.Session == "" {
		s.sendError(request.ID, "Missing 'session' parameter", 400)
		return nil, false
	}
	result, ok := s.sessions.get(request.Session)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("Unknown session: %s", request.Session), 404)
		return nil, false
	}
	return result, true
}

func (s *Server) status(id, status string) StatusResponse {
	e := s.currentEngine()
	return StatusResponse{
		ID:       id,
		Status:   status,
		Sessions: s.sessions.len(),
		Patterns: e.Patterns(),
		Alphabet: e.Alphabet().String(),
	}
}

func newHintResponse(requestID, sessionID string, result *engine.Result, elapsed time.Duration) HintResponse {
	matches := make([]MatchInfo, len(result.Matches))
	for i, m := range result.Matches {
		code, _ := result.HintFor(m.ID)
		matches[i] = MatchInfo{
			ID:             m.ID,
			Hint:           code,
			Pattern:        m.Name,
			Start:          m.Span.Start,
			End:            m.Span.End,
			HighlightStart: m.Highlight.Start,
			HighlightEnd:   m.Highlight.End,
			Text:           m.Text,
			Selected:       m.Selected,
			Degraded:       m.Degraded,
		}
	}

	var degraded []SpanInfo
	for _, d := range result.Degraded() {
		degraded = append(degraded, SpanInfo{Start: d.Start, End: d.End})
	}
	var failures []FailureInfo
	for _, f := range result.Failures {
		failures = append(failures, FailureInfo{Pattern: f.Pattern, Error: f.Err.Error()})
	}

	return HintResponse{
		ID:        requestID,
		Session:   sessionID,
		Matches:   matches,
		Degraded:  degraded,
		Failures:  failures,
		TimeTaken: elapsed.Microseconds(),
	}
}

// sendResponse encodes response to the client and flushes it.
func (s *Server) sendResponse(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Marshaling response: %v", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
