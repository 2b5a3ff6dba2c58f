package main

import (
	"github.com/urfave/cli/v3"

	"github.com/capitaldesk/desk/cmd/app/commands"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getAuthCommands()...)
	return cmds
}

// formatFlag is the --format flag shared by commands that print a result.
func formatFlag(aliases ...string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:      "format",
		Aliases:   aliases,
		Value:     commands.FormatText,
		Usage:     "Output format: 'text' or 'json'",
		Validator: commands.ValidateFormat,
	}
}
