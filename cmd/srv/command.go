package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "FamilyQuest"
	app.Usage = "Family chore gamification backend"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the TOML configuration file",
			Value: "config.toml",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves all quest, boss battle, character and cron endpoints.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start the in-process cron runner",
			Category:    "Worker",
			Description: `Runs recurring quest generation and expiry on an interval.`,
		},
		{
			Action:      server.migrate,
			Name:        "migrate",
			Usage:       "Run database migrations and exit",
			Category:    "Database",
			Description: `Auto-migrates all tables against the configured database.`,
		},
	}

	s.app = app
}
