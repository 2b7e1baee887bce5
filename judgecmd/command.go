package judgecmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/lcpu-club/judgeclient/common"
	"github.com/lcpu-club/judgeclient/judge"
	"github.com/lcpu-club/judgeclient/judge/api"
	"github.com/lcpu-club/judgeclient/judge/configure"
	"github.com/lcpu-club/judgeclient/judge/problem"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

type Command struct {
	configure *configure.Configure
	client    *judge.Client
	loader    *problem.Loader
	logger    *zap.Logger
	out       io.Writer
}

func NewCommand() *Command {
	cmd := &Command{
		out: os.Stdout,
	}
	return cmd
}

// SetOutput redirects the printed responses.
func (c *Command) SetOutput(w io.Writer) {
	c.out = w
}

func (c *Command) Init(conf *configure.Configure, opts ...common.ClientOption) error {
	err := conf.Validate()
	if err != nil {
		return err
	}
	c.configure = conf
	c.logger, err = NewLogger(conf.Log)
	if err != nil {
		return err
	}
	opts = append([]common.ClientOption{common.WithLogger(c.logger)}, opts...)
	c.client, err = judge.NewClient(conf.BaseURI, conf.AccountID, conf.Secret, opts...)
	if err != nil {
		return err
	}
	c.loader = problem.NewLoader(nil, "")
	if conf.MinIO != nil {
		mc, err := problem.NewMinIOClient(conf.MinIO)
		if err != nil {
			return err
		}
		c.loader = problem.NewLoader(mc, conf.MinIO.Bucket)
		c.logger.Debug("MinIO document source enabled", zap.String("endpoint", conf.MinIO.Endpoint))
	}
	return nil
}

func (c *Command) Close() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func ErrWrongArgumentNumber(command string, expected string) error {
	return fmt.Errorf(
		"wrong argument number for %v, expected %v\r\n   (use \"%v help %v\" for help)",
		command, expected, os.Args[0], command,
	)
}

var ErrInvalidQueryArgument = fmt.Errorf("query arguments must be KEY=VALUE")

func parseQueryArgs(args []string) (url.Values, error) {
	q := url.Values{}
	for _, arg := range args {
		k, v, found := strings.Cut(arg, "=")
		if !found || k == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidQueryArgument, arg)
		}
		q.Add(k, v)
	}
	return q, nil
}

func (c *Command) printResponse(resp *common.Response) error {
	_, err := fmt.Fprintln(c.out, resp.StatusCode)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, resp.Indent())
	return err
}

func (c *Command) problemCreate(ctx context.Context, file string) error {
	doc, err := c.loader.Load(ctx, file)
	if err != nil {
		return err
	}
	resp, err := c.client.CreateProblem(ctx, doc)
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

func (c *Command) HandleProblemCreate(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "1")
	}
	return c.problemCreate(ctx.Context, ctx.Args().Get(0))
}

func (c *Command) problemUpdate(ctx context.Context, problemID string, file string) error {
	doc, err := c.loader.Load(ctx, file)
	if err != nil {
		return err
	}
	resp, err := c.client.UpdateProblem(ctx, problemID, doc)
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

func (c *Command) HandleProblemUpdate(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "2")
	}
	return c.problemUpdate(ctx.Context, ctx.Args().Get(0), ctx.Args().Get(1))
}

func (c *Command) HandleProblemDelete(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "1")
	}
	resp, err := c.client.DeleteProblem(ctx.Context, ctx.Args().Get(0))
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

func (c *Command) HandleProblemCopy(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "1")
	}
	resp, err := c.client.CopyProblem(ctx.Context, ctx.Args().Get(0))
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

var ErrNoTestCaseData = fmt.Errorf("either a test case file or both --input and --output are required")

// testCaseUpsert sends file as is, or builds the case from the input and
// output refs when file is empty.
func (c *Command) testCaseUpsert(
	ctx context.Context, problemID string, caseID string, file string, input string, output string,
) error {
	var payload interface{}
	if file != "" {
		doc, err := c.loader.Load(ctx, file)
		if err != nil {
			return err
		}
		payload = doc
	} else {
		if input == "" || output == "" {
			return ErrNoTestCaseData
		}
		in, err := c.loader.ReadRaw(ctx, input)
		if err != nil {
			return err
		}
		out, err := c.loader.ReadRaw(ctx, output)
		if err != nil {
			return err
		}
		payload = &api.TestCase{Input: string(in), Output: string(out)}
	}
	resp, err := c.client.UpsertTestCase(ctx, problemID, caseID, payload)
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

func (c *Command) HandleTestCaseUpsert(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 && ctx.Args().Len() != 3 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "2 or 3")
	}
	return c.testCaseUpsert(
		ctx.Context,
		ctx.Args().Get(0), ctx.Args().Get(1), ctx.Args().Get(2),
		ctx.String("input"), ctx.String("output"),
	)
}

func (c *Command) HandleTestCaseDelete(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "2")
	}
	resp, err := c.client.DeleteTestCase(ctx.Context, ctx.Args().Get(0), ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

var ErrMissingSubmitFlag = fmt.Errorf("--problem and --language are required")

func (c *Command) submit(ctx context.Context, problemID string, language string, source string) error {
	if problemID == "" || language == "" {
		return ErrMissingSubmitFlag
	}
	code, err := c.loader.ReadRaw(ctx, source)
	if err != nil {
		return err
	}
	resp, err := c.client.Submit(ctx, &api.Submission{
		ProblemID: problemID,
		Language:  language,
		Code:      string(code),
	})
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

func (c *Command) HandleSubmit(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "1")
	}
	return c.submit(ctx.Context, ctx.String("problem"), ctx.String("language"), ctx.Args().Get(0))
}

func (c *Command) status(ctx context.Context, statusID string) error {
	resp, err := c.client.Query(ctx, statusID)
	if err != nil {
		return err
	}
	r := new(api.Record)
	if err := resp.Decode(r); err == nil && r.Status != "" {
		c.logger.Info("judge record",
			zap.String("statusID", statusID),
			zap.String("status", r.Status),
			zap.String("result", r.Result),
			zap.Float64("score", r.Score))
	}
	return c.printResponse(resp)
}

func (c *Command) HandleStatus(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return ErrWrongArgumentNumber(ctx.Command.Name, "1")
	}
	return c.status(ctx.Context, ctx.Args().Get(0))
}

func (c *Command) statusList(ctx context.Context, args []string) error {
	q, err := parseQueryArgs(args)
	if err != nil {
		return err
	}
	resp, err := c.client.QueryRecords(ctx, q)
	if err != nil {
		return err
	}
	return c.printResponse(resp)
}

func (c *Command) HandleStatusList(ctx *cli.Context) error {
	return c.statusList(ctx.Context, ctx.Args().Slice())
}
