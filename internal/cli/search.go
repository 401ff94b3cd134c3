package cli

import (
	"encoding/json"
	"fmt"
	"github.com/gistsearch/gistsearch/internal/config"
	"github.com/gistsearch/gistsearch/internal/search"
	"github.com/gistsearch/gistsearch/internal/validator"
	"github.com/urfave/cli/v2"
)

var CmdSearch = cli.Command{
	Name:      "search",
	Usage:     "Search the gists of a user once and print the matching gist URLs",
	ArgsUsage: "[--username <user>] [--pattern <regex>]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "GitHub username whose gists are searched",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pattern",
			Aliases:  []string{"p"},
			Usage:    "Regular expression matched against the start of each file",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the result as JSON",
		},
	},
	Action: func(ctx *cli.Context) error {
		if err := config.InitConfig(ctx.String("config"), ctx.App.ErrWriter); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		// Logs must not mix with the printed results.
		config.ConsoleOutput = ctx.App.ErrWriter
		config.InitLog()

		req := &search.Request{
			Username: ctx.String("username"),
			Pattern:  ctx.String("pattern"),
		}
		req.Normalize()

		if err := validator.NewValidator().Check(req); err != nil {
			return cli.Exit(err.Error(), 2)
		}

		pattern, err := search.Compile(req.Pattern)
		if err != nil {
			return cli.Exit("Invalid pattern", 2)
		}

		result, err := NewSearcher().Search(ctx.Context, req.Username, pattern)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		if ctx.Bool("json") {
			enc := json.NewEncoder(ctx.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		for _, match := range result.Matches {
			_, _ = fmt.Fprintln(ctx.App.Writer, match)
		}
		return nil
	},
}
