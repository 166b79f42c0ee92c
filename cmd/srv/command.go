package main

import "github.com/urfave/cli/v2"

// loadApp creates an app with sane defaults.
func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "BridgeArt"
	app.Usage = "BridgeArt backend services"
	app.Commands = []*cli.Command{
		{
			Action:    server.startApi,
			Name:      "api",
			Usage:     "Start service api",
			ArgsUsage: "",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "seed",
					Usage: "Insert the sample gallery if it is missing",
				},
			},
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis.`,
		},
		{
			Action:      server.startBridge,
			Name:        "bridge",
			Usage:       "Start service bridge",
			ArgsUsage:   "",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Used to start the worker consuming bridge requests and watching chain transactions.`,
		},
		{
			Action:    server.startMigrate,
			Name:      "migrate",
			Usage:     "Migrate database",
			ArgsUsage: "",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "auto",
					Usage: "Use gorm auto migration instead of sql files",
				},
			},
			Category:    "Database",
			Description: `Used to apply the sql migrations to the database.`,
		},
	}

	s.app = app
}
