package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/satori/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout        = 2 * time.Second
	DefaultConnectTimeout = 2 * time.Second
)

// HTTPClient is the part of *http.Client the signed client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type CommonClient interface {
	DoRequest(ctx context.Context, method string, path string, query url.Values, data interface{}) (*Response, error)
}

type CommonSignedClient struct {
	hc        HTTPClient
	address   string
	accountID string
	secretKey []byte
	clock     clockwork.Clock
	logger    *zap.Logger
}

type ClientOption func(cc *CommonSignedClient)

func WithHTTPClient(hc HTTPClient) ClientOption {
	return func(cc *CommonSignedClient) {
		cc.hc = hc
	}
}

// WithClock sets the time source of the Authorization timestamp.
func WithClock(clock clockwork.Clock) ClientOption {
	return func(cc *CommonSignedClient) {
		cc.clock = clock
	}
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(cc *CommonSignedClient) {
		cc.logger = logger
	}
}

// NewHTTPClient returns an *http.Client with a whole-request timeout and a
// separate dial timeout.
func NewHTTPClient(timeout time.Duration, connectTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func NewCommonSignedClient(
	address string, accountID string, secretKey []byte, opts ...ClientOption,
) *CommonSignedClient {
	cc := &CommonSignedClient{
		address:   strings.TrimRight(address, "/"),
		accountID: accountID,
		secretKey: secretKey,
	}
	for _, opt := range opts {
		opt(cc)
	}
	if cc.hc == nil {
		cc.hc = NewHTTPClient(DefaultTimeout, DefaultConnectTimeout)
	}
	if cc.clock == nil {
		cc.clock = clockwork.NewRealClock()
	}
	if cc.logger == nil {
		cc.logger = zap.NewNop()
	}
	return cc
}

func (cc *CommonSignedClient) Address() string {
	return cc.address
}

func (cc *CommonSignedClient) authorization(path string, method string) string {
	return SignAuthorization(cc.accountID, cc.clock.Now().Unix(), path, method, cc.secretKey).String()
}

func (cc *CommonSignedClient) createRequest(
	ctx context.Context, method string, path string, query url.Values, body io.Reader,
) (*http.Request, error) {
	u := cc.address + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	req.Header.Set("Authorization", cc.authorization(path, method))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewV4().String())
	return req, nil
}

func (cc *CommonSignedClient) createRequestWithJSON(
	ctx context.Context, method string, path string, query url.Values, data interface{},
) (*http.Request, error) {
	if data == nil {
		return cc.createRequest(ctx, method, path, query, nil)
	}
	j, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot encode request body: %v", ErrInvalidArgument, err)
	}
	req, err := cc.createRequest(ctx, method, path, query, bytes.NewReader(j))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// DoRequest signs and sends one request. The path is signed without the
// query string. A nil data sends no body.
func (cc *CommonSignedClient) DoRequest(
	ctx context.Context, method string, path string, query url.Values, data interface{},
) (*Response, error) {
	req, err := cc.createRequestWithJSON(ctx, method, path, query, data)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get("X-Request-ID")
	start := cc.clock.Now()
	r, err := cc.hc.Do(req)
	if err != nil {
		cc.logger.Warn("judge request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("requestID", requestID),
			zap.Error(err))
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer r.Body.Close()
	j, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	cc.logger.Debug("judge request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("requestID", requestID),
		zap.Int("status", r.StatusCode),
		zap.Duration("elapsed", cc.clock.Since(start)))
	resp, err := newResponse(r.StatusCode, r.Header, j)
	if !resp.IsSuccess() {
		return nil, NewServiceError(r.StatusCode, resp.Message())
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
