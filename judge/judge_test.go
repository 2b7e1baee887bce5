package judge

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lcpu-club/judgeclient/common"
	"github.com/lcpu-club/judgeclient/judgetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewClientBaseURI(t *testing.T) {
	tests := []struct {
		base  string
		valid bool
	}{
		{"judge.coder.tips", false},
		{"https://judge.coder.tips", true},
		{"http://judge.coder.tips/", true},
		{"HTTPS://JUDGE.CODER.TIPS/api/v1", true},
		{"http://localhost:8080", true},
		{"http://127.0.0.1:34567", true},
		{"ftp://judge.coder.tips", false},
		{"https://", false},
		{"https://judge coder.tips", false},
		{"", false},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.base, "test", "test")
		if tt.valid {
			assert.NoError(t, err, tt.base)
			assert.NotNil(t, c, tt.base)
		} else {
			assert.ErrorIs(t, err, common.ErrInvalidConfiguration, tt.base)
			assert.Nil(t, c, tt.base)
		}
	}
}

type captured struct {
	method        string
	escapedPath   string
	query         string
	body          string
	authorization string
}

func newTestJudge(t *testing.T, status int, body string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.escapedPath = r.URL.EscapedPath()
		got.query = r.URL.RawQuery
		got.body = string(b)
		got.authorization = r.Header.Get("Authorization")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, "test", "test",
		common.WithClock(clockwork.NewFakeClockAt(time.Unix(1000, 0))),
		common.WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	return c, got
}

func TestClientOperations(t *testing.T) {
	problem := map[string]interface{}{"title": "A+B"}
	record := map[string]interface{}{"problem_id": "1", "language": "cpp", "code": "int main(){}"}
	tests := []struct {
		name   string
		call   func(ctx context.Context, c *Client) (*common.Response, error)
		method string
		path   string
		body   string
	}{
		{
			name:   "create problem",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.CreateProblem(ctx, problem) },
			method: http.MethodPost,
			path:   "/problem",
			body:   `{"title": "A+B"}`,
		},
		{
			name:   "update problem",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.UpdateProblem(ctx, "42", problem) },
			method: http.MethodPut,
			path:   "/problem/42",
			body:   `{"title": "A+B"}`,
		},
		{
			name:   "delete problem",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.DeleteProblem(ctx, "42") },
			method: http.MethodDelete,
			path:   "/problem/42",
		},
		{
			name:   "copy problem",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.CopyProblem(ctx, "42") },
			method: http.MethodGet,
			path:   "/copy/42",
		},
		{
			name: "upsert test case",
			call: func(ctx context.Context, c *Client) (*common.Response, error) {
				return c.UpsertTestCase(ctx, "42", "3", map[string]string{"input": "1 2", "output": "3"})
			},
			method: http.MethodPost,
			path:   "/testcase/42/3",
			body:   `{"input": "1 2", "output": "3"}`,
		},
		{
			name:   "delete test case",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.DeleteTestCase(ctx, "42", "3") },
			method: http.MethodDelete,
			path:   "/testcase/42/3",
		},
		{
			name:   "submit",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.Submit(ctx, record) },
			method: http.MethodPost,
			path:   "/status",
			body:   `{"problem_id": "1", "language": "cpp", "code": "int main(){}"}`,
		},
		{
			name:   "query",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.Query(ctx, "99") },
			method: http.MethodGet,
			path:   "/status/99",
		},
		{
			name:   "escaped id",
			call:   func(ctx context.Context, c *Client) (*common.Response, error) { return c.DeleteProblem(ctx, "a/b c") },
			method: http.MethodDelete,
			path:   "/problem/a%2Fb%20c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newTestJudge(t, http.StatusOK, `{"ok": true}`)
			resp, err := tt.call(context.Background(), c)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, true, resp.Data["ok"])

			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.path, got.escapedPath)
			if tt.body == "" {
				assert.Empty(t, got.body)
			} else {
				assert.JSONEq(t, tt.body, got.body)
			}
			expected := common.SignAuthorization("test", 1000, tt.path, tt.method, []byte("test"))
			assert.Equal(t, expected.String(), got.authorization)
		})
	}
}

func TestCreateProblemCreated(t *testing.T) {
	c, _ := newTestJudge(t, http.StatusCreated, `{"id": 7}`)
	resp, err := c.CreateProblem(context.Background(), map[string]string{"title": "A+B"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 7, resp.Data["id"])
}

func TestDeleteProblemNotFound(t *testing.T) {
	c, _ := newTestJudge(t, http.StatusNotFound, `{"message": "not found"}`)
	resp, err := c.DeleteProblem(context.Background(), "42")
	assert.Nil(t, resp)
	require.ErrorIs(t, err, common.ErrJudgeService)
	var se *common.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "not found", se.Message)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestQueryRecords(t *testing.T) {
	c, got := newTestJudge(t, http.StatusOK, `[{"id": 1}, {"id": 2}]`)
	resp, err := c.QueryRecords(context.Background(), url.Values{"problem": []string{"42"}, "page": []string{"2"}})
	require.NoError(t, err)

	var records []map[string]int
	require.NoError(t, resp.Decode(&records))
	assert.Len(t, records, 2)
	assert.Equal(t, "/status", got.escapedPath)
	assert.Equal(t, "page=2&problem=42", got.query)
	assert.Equal(t, common.SignAuthorization("test", 1000, "/status", http.MethodGet, []byte("test")).String(),
		got.authorization)
}

func TestEmptyIDIsRejected(t *testing.T) {
	c, got := newTestJudge(t, http.StatusOK, `{}`)
	_, err := c.UpdateProblem(context.Background(), "", map[string]string{})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = c.DeleteTestCase(context.Background(), "1", "")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = c.Query(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.Empty(t, got.method)
}

type timeoutDoer struct {
	calls int
}

func (d *timeoutDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return nil, &url.Error{Op: req.Method, URL: req.URL.String(), Err: context.DeadlineExceeded}
}

func TestTransportFailureOnEveryOperation(t *testing.T) {
	ops := map[string]func(ctx context.Context, c *Client) (*common.Response, error){
		"create":  func(ctx context.Context, c *Client) (*common.Response, error) { return c.CreateProblem(ctx, 1) },
		"update":  func(ctx context.Context, c *Client) (*common.Response, error) { return c.UpdateProblem(ctx, "1", 1) },
		"delete":  func(ctx context.Context, c *Client) (*common.Response, error) { return c.DeleteProblem(ctx, "1") },
		"copy":    func(ctx context.Context, c *Client) (*common.Response, error) { return c.CopyProblem(ctx, "1") },
		"upsert":  func(ctx context.Context, c *Client) (*common.Response, error) { return c.UpsertTestCase(ctx, "1", "1", 1) },
		"remove":  func(ctx context.Context, c *Client) (*common.Response, error) { return c.DeleteTestCase(ctx, "1", "1") },
		"submit":  func(ctx context.Context, c *Client) (*common.Response, error) { return c.Submit(ctx, 1) },
		"query":   func(ctx context.Context, c *Client) (*common.Response, error) { return c.Query(ctx, "1") },
		"records": func(ctx context.Context, c *Client) (*common.Response, error) { return c.QueryRecords(ctx, nil) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			doer := &timeoutDoer{}
			c, err := NewClient("https://judge.coder.tips", "test", "test", common.WithHTTPClient(doer))
			require.NoError(t, err)

			_, err = op(context.Background(), c)
			require.ErrorIs(t, err, common.ErrTransport)
			var te *common.TransportError
			require.ErrorAs(t, err, &te)
			assert.True(t, te.Timeout())
			assert.Equal(t, 1, doer.calls)
		})
	}
}

func TestSignedRoundTrip(t *testing.T) {
	srv := judgetest.NewServer("test", []byte("test"))
	t.Cleanup(srv.Close)
	srv.HandleFunc("/problem", func(w http.ResponseWriter, r *http.Request) {
		var p map[string]interface{}
		if err := judgetest.DecodeRequest(r, &p); err != nil {
			judgetest.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		judgetest.Respond(w, http.StatusCreated, map[string]interface{}{"id": 7, "title": p["title"]})
	})

	c, err := NewClient(srv.URL, "test", "test", common.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	resp, err := c.CreateProblem(context.Background(), map[string]string{"title": "A+B"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, resp.Data["id"])
	assert.Equal(t, "A+B", resp.Data["title"])

	_, err = c.CopyProblem(context.Background(), "7")
	var se *common.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Len(t, srv.Requests(), 2)
}

func TestSignatureRejected(t *testing.T) {
	srv := judgetest.NewServer("test", []byte("test"),
		judgetest.WithClock(clockwork.NewFakeClockAt(time.Unix(1000, 0).Add(time.Hour))))
	t.Cleanup(srv.Close)

	tests := []struct {
		name    string
		account string
		secret  string
		message string
	}{
		{"expired", "test", "test", "signature expired"},
		{"unknown account", "nobody", "test", "unknown account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(srv.URL, tt.account, tt.secret,
				common.WithClock(clockwork.NewFakeClockAt(time.Unix(1000, 0))))
			require.NoError(t, err)
			_, err = c.Query(context.Background(), "1")
			var se *common.ServiceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
			assert.Equal(t, tt.message, se.Message)
		})
	}
	assert.Empty(t, srv.Requests())
}

func TestSignatureWithWrongSecret(t *testing.T) {
	srv := judgetest.NewServer("test", []byte("test"))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "test", "other")
	require.NoError(t, err)
	_, err = c.Query(context.Background(), "1")
	require.ErrorIs(t, err, common.ErrJudgeService)
	assert.EqualError(t, err, "invalid signature")
	assert.Empty(t, srv.Requests())
}

func TestBaseURIWithPath(t *testing.T) {
	srv := judgetest.NewServer("test", []byte("test"), judgetest.WithPathPrefix("/api"))
	t.Cleanup(srv.Close)
	srv.HandleFunc("/status/", func(w http.ResponseWriter, r *http.Request) {
		judgetest.Respond(w, http.StatusOK, map[string]string{"status": "accepted"})
	})

	c, err := NewClient(srv.URL+"/api/", "test", "test")
	require.NoError(t, err)
	resp, err := c.Query(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.Data["status"])

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/status/1", reqs[0].Authorization.Path)
}
