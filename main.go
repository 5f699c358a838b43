package main

import (
	"fmt"
	"os"

	"github.com/schoolyear/vm-maintenance-cli/commands"
	"github.com/schoolyear/vm-maintenance-cli/static"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "vm-maintenance",
		Usage:   "check which of your cloud VMs are scheduled for maintenance",
		Version: static.Version,
		Suggest: true,
		Commands: cli.Commands{
			commands.CheckCommand,
			commands.UpdateCommand,
		},
		DefaultCommand:       commands.CheckCommand.Name,
		EnableBashCompletion: true,
		Authors: []*cli.Author{
			{
				Name:  "Schoolyear",
				Email: "support@schoolyear.com",
			},
		},
		Copyright: "Schoolyear",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}
