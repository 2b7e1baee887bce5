package api

import (
	"fmt"
	"net/url"
)

const (
	ProblemPath  = "/problem"
	CopyPath     = "/copy"
	TestCasePath = "/testcase"
	StatusPath   = "/status"
)

var ErrEmptyID = fmt.Errorf("empty id")

// ResourcePath joins base with the escaped ids, e.g.
// ResourcePath("/testcase", "1", "2") is "/testcase/1/2".
func ResourcePath(base string, ids ...string) (string, error) {
	p := base
	for _, id := range ids {
		if id == "" {
			return "", ErrEmptyID
		}
		p += "/" + url.PathEscape(id)
	}
	return p, nil
}

// TestCase is one input / expected output pair of a problem.
type TestCase struct {
	Input  string `json:"input" yaml:"input" toml:"input"`
	Output string `json:"output" yaml:"output" toml:"output"`
}

// Submission is the judge record sent to POST /status.
type Submission struct {
	ProblemID string `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// Record is the part of a judge record the client reads back.
type Record struct {
	ID        interface{} `json:"id"`
	ProblemID interface{} `json:"problem_id"`
	Status    string      `json:"status"`
	Result    string      `json:"result"`
	Score     float64     `json:"score"`
	Message   string      `json:"message"`
}
