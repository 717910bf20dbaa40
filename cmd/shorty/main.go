package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/config"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/shorty-cgi/shorty/api/version"
	"github.com/urfave/cli"
)

func newShorty(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "shorty"
	app.Version = version.Version
	app.Usage = "manage the short urls of a shorty database"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "logrus level, logs go to stderr",
			Value:  "warn",
			EnvVar: config.EnvLogLevel,
		},
	}
	app.Before = func(c *cli.Context) error {
		common.SetLogLevel(c.GlobalString("log-level"))
		common.SetLogDest("stderr", app.Name)
		return nil
	}
	app.CommandNotFound = func(c *cli.Context, cmd string) {
		fmt.Fprintf(stderr, "command not found: %v\n", cmd)
	}

	s := &shortyCmd{out: stdout, errOut: stderr}
	app.Commands = []cli.Command{
		{
			Name:      "set",
			Usage:     "create or replace a short url",
			ArgsUsage: "<name> <url>",
			Flags:     databaseFlags(),
			Action:    s.set,
		},
		{
			Name:      "get",
			Usage:     "print the url a short url points to",
			ArgsUsage: "<name>",
			Flags:     databaseFlags(),
			Action:    s.get,
		},
		{
			Name:   "list",
			Usage:  "print every short url name",
			Flags:  databaseFlags(),
			Action: s.list,
		},
		{
			Name:   "export",
			Usage:  "write every short url as CSV",
			Flags:  databaseFlags(),
			Action: s.export,
		},
		{
			Name:    "quote",
			Aliases: []string{"quotes"},
			Usage:   "manage the quotations shown on the front page",
			Subcommands: []cli.Command{
				{
					Name:      "add",
					Aliases:   []string{"a"},
					Usage:     "add a quotation",
					ArgsUsage: "<quote>",
					Flags: append(databaseFlags(),
						cli.StringFlag{
							Name:  "collection",
							Usage: "collection the quotation belongs to",
							Value: models.DefaultCollection,
						},
					),
					Action: s.addQuote,
				},
			},
		},
		{
			Name:  "migrate",
			Usage: "create or upgrade the database schema",
			Flags: append(databaseFlags(),
				cli.BoolFlag{
					Name:  "down",
					Usage: "unwind every migration instead, dropping all data",
				},
			),
			Action: s.migrate,
		},
	}

	prepareCmdArgsValidation(app.Commands)

	return app
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "database",
			Usage:  "sqlite file path or datastore url",
			EnvVar: config.EnvDB,
		},
	}
}

func parseArgs(c *cli.Context) ([]string, []string) {
	args := strings.Split(c.Command.ArgsUsage, " ")
	var reqArgs []string
	var optArgs []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "[") {
			optArgs = append(optArgs, arg)
		} else if strings.Trim(arg, " ") != "" {
			reqArgs = append(reqArgs, arg)
		}
	}
	return reqArgs, optArgs
}

// v1 doesn't let us validate args before the cmd.Action
func prepareCmdArgsValidation(cmds []cli.Command) {
	for i, cmd := range cmds {
		prepareCmdArgsValidation(cmd.Subcommands)
		if cmd.Action == nil {
			continue
		}
		action := cmd.Action
		cmd.Action = func(c *cli.Context) error {
			reqArgs, _ := parseArgs(c)
			if c.NArg() < len(reqArgs) {
				var help bytes.Buffer
				cli.HelpPrinter(&help, cli.CommandHelpTemplate, c.Command)
				return fmt.Errorf("ERROR: Missing required arguments: %s\n\n%s", strings.Join(reqArgs[c.NArg():], " "), help.String())
			}
			return cli.HandleAction(action, c)
		}
		cmds[i] = cmd
	}
}

func main() {
	app := newShorty(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error occurred: %v, exiting...\n", err)
		os.Exit(1)
	}
}
