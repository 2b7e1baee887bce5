// Package judge is a client for the judge service HTTP API: problems, test
// cases and judge records, each request signed with the account secret.
package judge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/lcpu-club/judgeclient/common"
	"github.com/lcpu-club/judgeclient/judge/api"
)

var baseURIPattern = regexp.MustCompile(`(?i)^https?://(-\.)?([^\s/?.#-]+\.?)+(/[^\s]*)?$`)

// Client issues exactly one signed request per call. It is safe for
// concurrent use.
type Client struct {
	cc *common.CommonSignedClient
}

func NewClient(base string, accountID string, secret string, opts ...common.ClientOption) (*Client, error) {
	if !baseURIPattern.MatchString(base) {
		return nil, fmt.Errorf("%w: invalid base uri %q", common.ErrInvalidConfiguration, base)
	}
	c := &Client{
		cc: common.NewCommonSignedClient(base, accountID, []byte(secret), opts...),
	}
	return c, nil
}

func (c *Client) do(
	ctx context.Context, method string, base string, ids []string, query url.Values, data interface{},
) (*common.Response, error) {
	path, err := api.ResourcePath(base, ids...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", common.ErrInvalidArgument, method, base, err)
	}
	return c.cc.DoRequest(ctx, method, path, query, data)
}

// CreateProblem creates a new problem.
func (c *Client) CreateProblem(ctx context.Context, problem interface{}) (*common.Response, error) {
	return c.do(ctx, http.MethodPost, api.ProblemPath, nil, nil, problem)
}

func (c *Client) UpdateProblem(ctx context.Context, problemID string, problem interface{}) (*common.Response, error) {
	return c.do(ctx, http.MethodPut, api.ProblemPath, []string{problemID}, nil, problem)
}

func (c *Client) DeleteProblem(ctx context.Context, problemID string) (*common.Response, error) {
	return c.do(ctx, http.MethodDelete, api.ProblemPath, []string{problemID}, nil, nil)
}

// CopyProblem duplicates a problem; the response is the new problem.
func (c *Client) CopyProblem(ctx context.Context, problemID string) (*common.Response, error) {
	return c.do(ctx, http.MethodGet, api.CopyPath, []string{problemID}, nil, nil)
}

// UpsertTestCase creates or replaces test case caseID of problemID.
func (c *Client) UpsertTestCase(
	ctx context.Context, problemID string, caseID string, testCase interface{},
) (*common.Response, error) {
	return c.do(ctx, http.MethodPost, api.TestCasePath, []string{problemID, caseID}, nil, testCase)
}

func (c *Client) DeleteTestCase(ctx context.Context, problemID string, caseID string) (*common.Response, error) {
	return c.do(ctx, http.MethodDelete, api.TestCasePath, []string{problemID, caseID}, nil, nil)
}

// Submit adds a judge record. The response usually carries the assigned
// status id; poll Query for the verdict.
func (c *Client) Submit(ctx context.Context, record interface{}) (*common.Response, error) {
	return c.do(ctx, http.MethodPost, api.StatusPath, nil, nil, record)
}

func (c *Client) Query(ctx context.Context, statusID string) (*common.Response, error) {
	return c.do(ctx, http.MethodGet, api.StatusPath, []string{statusID}, nil, nil)
}

// QueryRecords lists judge records matching params. Only /status is signed.
func (c *Client) QueryRecords(ctx context.Context, params url.Values) (*common.Response, error) {
	return c.do(ctx, http.MethodGet, api.StatusPath, nil, params, nil)
}
