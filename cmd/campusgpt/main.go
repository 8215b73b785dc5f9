package main

import (
	"github.com/spf13/cobra"

	"campusgpt/app"
	"campusgpt/cli/chat"
	"campusgpt/cli/rooms"
	"campusgpt/internal/configuration"
)

const configFilepath = "~/.config/campusgpt/config.json"

var rootCmd = &cobra.Command{
	Use:     "campusgpt",
	Short:   "A CLI for the CampusGPT campus assistant",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	application, err := app.NewApp(config)
	if err != nil {
		panic(err)
	}
	defer application.Close()

	rootCmd.AddCommand(chat.NewCmd(application))
	rootCmd.AddCommand(rooms.NewCmd(application))
	rootCmd.Execute()
}
