package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path of the TOML config file, environment variables override it",
		EnvVars: []string{"LOTTO_CONFIG"},
	}

	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Lotto"
	s.app.Usage = "Real-time lottery ticket service"
	s.app.Flags = []cli.Flag{configFlag}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startServer,
			Name:        "server",
			Usage:       "Start the websocket service",
			Category:    "Service",
			Description: `Serves websocket clients on /ws. The ticket pool is seeded when it is empty.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Create or update the database schema",
			Category:    "Database",
			Description: `Creates or updates every table of the service.`,
		},
		{
			Action:      s.startSeed,
			Name:        "seed",
			Usage:       "Seed the ticket pool if it is empty",
			Category:    "Database",
			Description: `Generates the configured number of tickets when the ticket table is empty.`,
		},
		{
			Action:   s.createAdmin,
			Name:     "create-admin",
			Usage:    "Create an admin or owner account",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Required: true},
				&cli.StringFlag{Name: "password", Required: true},
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "phone", Required: true},
				&cli.StringFlag{Name: "role", Value: "admin", Usage: "admin or owner"},
			},
			Description: `Privileged accounts cannot register themselves, they are created here.`,
		},
	}
}
