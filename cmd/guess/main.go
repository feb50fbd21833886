// Command guess plays one round of the number guessing game on the console.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessing-game/internal/config"
	"github.com/robalobadob/guessing-game/internal/console"
	"github.com/robalobadob/guessing-game/internal/game"
)

func main() {
	_ = godotenv.Load()
	config.SetupConsoleLogging(os.Stderr, zerolog.WarnLevel)

	g, err := game.New(0, game.DefaultMaxAttempts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start game")
	}

	if _, err := console.Play(os.Stdin, os.Stdout, g); err != nil {
		var re *console.ReadError
		if errors.As(err, &re) {
			fmt.Println("Failed to read line:", re.Err)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("game aborted")
	}
}
