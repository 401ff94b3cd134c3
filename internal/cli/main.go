package cli

import (
	"context"
	"fmt"
	"github.com/gistsearch/gistsearch/internal/config"
	"github.com/gistsearch/gistsearch/internal/gists"
	"github.com/gistsearch/gistsearch/internal/search"
	"github.com/gistsearch/gistsearch/internal/web/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

const shutdownTimeout = 30 * time.Second

var CmdVersion = cli.Command{
	Name:  "version",
	Usage: "Print the version of Gistsearch",
	Action: func(c *cli.Context) error {
		fmt.Println("Gistsearch " + config.GistsearchVersion)
		return nil
	},
}

var CmdStart = cli.Command{
	Name:  "start",
	Usage: "Start Gistsearch server",
	Action: func(ctx *cli.Context) error {
		Initialize(ctx)

		s := server.NewServer(NewSearcher(), os.Getenv("GS_DEV") == "1")
		go s.Start()

		sig, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-sig.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
			return err
		}
		return nil
	},
}

var ConfigFlag = cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to a config file in YAML format",
}

func App() error {
	return NewApp().Run(os.Args)
}

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "Gistsearch"
	app.Usage = "Search the public gists of a GitHub user with a regular expression."
	app.HelpName = "gistsearch"

	app.Commands = []*cli.Command{&CmdVersion, &CmdStart, &CmdSearch}
	app.DefaultCommand = CmdStart.Name
	app.Flags = []cli.Flag{
		&ConfigFlag,
	}
	return app
}

func Initialize(ctx *cli.Context) {
	fmt.Println("Gistsearch " + config.GistsearchVersion)

	if err := config.InitConfig(ctx.String("config"), os.Stdout); err != nil {
		panic(err)
	}
	if err := os.MkdirAll(filepath.Join(config.GetHomeDir()), 0755); err != nil {
		panic(err)
	}

	config.InitLog()

	log.Info().Msg("Data directory: " + config.GetHomeDir())
}

// NewSearcher builds a searcher from the loaded configuration.
func NewSearcher() *search.Searcher {
	client := gists.NewClient(gists.Options{
		BaseURL:   config.C.GithubApiUrl,
		PageSize:  config.C.GithubPageSize,
		UserAgent: config.C.GithubUserAgent,
		Timeout:   config.C.GithubTimeout,
	})

	return search.NewSearcher(client, search.Options{
		WebURL:      config.C.GithubWebUrl,
		Concurrency: config.C.SearchConcurrency,
	})
}
