package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/panyam/vizsync/cmd/vizsync/commands"
)

func main() {
	envfile := ".env"
	if os.Getenv("VIZSYNC_ENV") == "dev" {
		envfile = ".env.dev"
		logger := slog.New(commands.NewPrettyHandler(os.Stdout, commands.PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		}))
		slog.SetDefault(logger)
	}
	if err := godotenv.Load(envfile); err != nil && !os.IsNotExist(err) {
		log.Println("could not load env file:", envfile, err)
	}

	commands.Execute()
}
