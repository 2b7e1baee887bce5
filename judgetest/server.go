// Package judgetest provides a fake judge service that checks request
// signatures, for testing code built on the judge client.
package judgetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lcpu-club/judgeclient/common"
)

const DefaultMaxSkew = 5 * time.Minute

// Request is a signed request the server accepted.
type Request struct {
	Method        string
	Path          string
	Query         string
	Header        http.Header
	Body          []byte
	Authorization *common.Authorization
}

// DecodeBody unmarshals the request body into v.
func (r *Request) DecodeBody(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

type Server struct {
	*httptest.Server
	accountID string
	secretKey []byte
	clock     clockwork.Clock
	maxSkew   time.Duration
	prefix    string
	mux       *http.ServeMux
	lock      *sync.Mutex
	requests  []*Request
}

type Option func(s *Server)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithMaxSkew bounds how far the signed timestamp may be from the server
// clock.
func WithMaxSkew(d time.Duration) Option {
	return func(s *Server) {
		s.maxSkew = d
	}
}

// WithPathPrefix serves the judge under prefix, for clients whose base URI
// carries a path. The prefix is not part of the signed path.
func WithPathPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = strings.TrimRight(prefix, "/")
	}
}

// NewServer starts a fake judge. Unrouted paths answer 404 with a JSON
// message, like the real service.
func NewServer(accountID string, secretKey []byte, opts ...Option) *Server {
	s := &Server{
		accountID: accountID,
		secretKey: secretKey,
		clock:     clockwork.NewRealClock(),
		maxSkew:   DefaultMaxSkew,
		mux:       http.NewServeMux(),
		lock:      &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s)
	return s
}

func (s *Server) HandleFunc(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(pattern, handler)
}

// Requests returns the accepted requests in arrival order.
func (s *Server) Requests() []*Request {
	s.lock.Lock()
	defer s.lock.Unlock()
	rs := make([]*Request, len(s.requests))
	copy(rs, s.requests)
	return rs
}

func RespondError(w http.ResponseWriter, statusCode int, message string) {
	if message == "" {
		message = strconv.Itoa(statusCode) + " " + http.StatusText(statusCode)
	}
	Respond(w, statusCode, map[string]string{"message": message})
}

func Respond(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeRequest unmarshals the JSON body of a request reaching a handler.
func DecodeRequest(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// stripPrefix removes the path prefix from r and returns the escaped path
// left. ok is false when r is outside the prefix.
func (s *Server) stripPrefix(r *http.Request) (path string, ok bool) {
	path = r.URL.EscapedPath()
	if s.prefix == "" {
		return path, true
	}
	if path != s.prefix && !strings.HasPrefix(path, s.prefix+"/") {
		return "", false
	}
	path = strings.TrimPrefix(path, s.prefix)
	if path == "" {
		path = "/"
	}
	u := *r.URL
	u.Path = "/" + strings.TrimPrefix(strings.TrimPrefix(u.Path, s.prefix), "/")
	u.RawPath = ""
	if u.EscapedPath() != path {
		u.RawPath = path
	}
	r.URL = &u
	return path, true
}

func (s *Server) checkAuthorization(r *http.Request, path string) (*common.Authorization, string) {
	a, err := common.ParseAuthorization(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err.Error()
	}
	if a.AccountID != s.accountID {
		return nil, "unknown account"
	}
	if a.Method != r.Method || a.Path != path {
		return nil, "signature does not match request"
	}
	skew := s.clock.Now().Sub(time.Unix(a.Timestamp, 0))
	if skew > s.maxSkew || skew < -s.maxSkew {
		return nil, "signature expired"
	}
	if !common.CheckAuthorization(a, s.secretKey) {
		return nil, "invalid signature"
	}
	return a, ""
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "")
		return
	}
	path, ok := s.stripPrefix(r)
	if !ok {
		RespondError(w, http.StatusNotFound, "")
		return
	}
	a, reason := s.checkAuthorization(r, path)
	if a == nil {
		RespondError(w, http.StatusUnauthorized, reason)
		return
	}
	s.lock.Lock()
	s.requests = append(s.requests, &Request{
		Method:        r.Method,
		Path:          path,
		Query:         r.URL.RawQuery,
		Header:        r.Header.Clone(),
		Body:          body,
		Authorization: a,
	})
	s.lock.Unlock()
	r.Body = io.NopCloser(bytes.NewReader(body))
	h, pattern := s.mux.Handler(r)
	if pattern == "" {
		RespondError(w, http.StatusNotFound, "")
		return
	}
	h.ServeHTTP(w, r)
}
