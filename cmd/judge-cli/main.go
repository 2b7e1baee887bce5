package main

import (
	"fmt"
	"os"

	"github.com/lcpu-club/judgeclient/judge/configure"
	"github.com/lcpu-club/judgeclient/judgecmd"
	"github.com/urfave/cli/v3"
)

const defaultConfigureFile = "/etc/judge-cli.yml"

func loadConfigure(ctx *cli.Context) (*configure.Configure, error) {
	conf, err := configure.LoadConfigure(ctx.String("configure"))
	if err != nil {
		// the default file may be absent when everything comes from flags
		if !os.IsNotExist(err) || ctx.IsSet("configure") {
			return nil, err
		}
		conf, err = configure.ParseConfigure(nil)
		if err != nil {
			return nil, err
		}
	}
	if ctx.IsSet("base-uri") {
		conf.BaseURI = ctx.String("base-uri")
	}
	if ctx.IsSet("account-id") {
		conf.AccountID = ctx.String("account-id")
	}
	if ctx.IsSet("secret") {
		conf.Secret = ctx.String("secret")
	}
	return conf, nil
}

func newApp(cmd *judgecmd.Command, configureFile string) *cli.App {
	app := cli.NewApp()
	app.Name = "judge-cli"
	app.Usage = "Judge service command line client"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "configure",
			Aliases:     []string{"config", "c"},
			Usage:       "The path to configure file (yaml format)",
			Value:       configureFile,
			DefaultText: configureFile,
		},
		&cli.StringFlag{
			Name:  "base-uri",
			Usage: "Judge API base uri, overrides the configure file",
		},
		&cli.StringFlag{
			Name:  "account-id",
			Usage: "Judge account id, overrides the configure file",
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "Judge account secret, overrides the configure file",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		conf, err := loadConfigure(ctx)
		if err != nil {
			return err
		}
		return cmd.Init(conf)
	}
	app.Commands = []*cli.Command{
		{
			Name:      "problem-create",
			Usage:     "Create a problem from a json, yaml or toml document",
			ArgsUsage: "FILE",
			Action:    cmd.HandleProblemCreate,
		},
		{
			Name:      "problem-update",
			Usage:     "Replace a problem with a json, yaml or toml document",
			ArgsUsage: "PROBLEM_ID FILE",
			Action:    cmd.HandleProblemUpdate,
		},
		{
			Name:      "problem-delete",
			Usage:     "Delete a problem",
			ArgsUsage: "PROBLEM_ID",
			Action:    cmd.HandleProblemDelete,
		},
		{
			Name:      "problem-copy",
			Usage:     "Copy a problem",
			ArgsUsage: "PROBLEM_ID",
			Action:    cmd.HandleProblemCopy,
		},
		{
			Name:      "testcase-upsert",
			Usage:     "Create or replace a test case",
			ArgsUsage: "PROBLEM_ID CASE_ID [FILE]",
			Action:    cmd.HandleTestCaseUpsert,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "input",
					Usage: "Input file of the test case, used when FILE is omitted",
				},
				&cli.StringFlag{
					Name:  "output",
					Usage: "Expected output file of the test case, used when FILE is omitted",
				},
			},
		},
		{
			Name:      "testcase-delete",
			Usage:     "Delete a test case",
			ArgsUsage: "PROBLEM_ID CASE_ID",
			Action:    cmd.HandleTestCaseDelete,
		},
		{
			Name:      "submit",
			Usage:     "Submit a solution for judging",
			ArgsUsage: "SOURCE_FILE",
			Action:    cmd.HandleSubmit,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "problem",
					Aliases: []string{"p"},
					Usage:   "Problem id",
				},
				&cli.StringFlag{
					Name:    "language",
					Aliases: []string{"l"},
					Usage:   "Language of the source file",
				},
			},
		},
		{
			Name:      "status",
			Usage:     "Query a judge record",
			ArgsUsage: "STATUS_ID",
			Action:    cmd.HandleStatus,
		},
		{
			Name:      "status-list",
			Usage:     "List judge records",
			ArgsUsage: "[KEY=VALUE...]",
			Action:    cmd.HandleStatusList,
		},
	}
	return app
}

func main() {
	cmd := judgecmd.NewCommand()
	defer cmd.Close()
	app := newApp(cmd, defaultConfigureFile)
	err := app.Run(os.Args)
	if err != nil {
		fmt.Println("judge-cli:", err)
		cmd.Close()
		os.Exit(-1)
	}
}
