package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/trackdb/tests/helpers"
)

const usage = `
Start the trackdb development database container and hold it until interrupted.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to a .env file supplying DB_* variables

example
  testcontainers -f /path/to/something/.env
`

func main() {
	showHelp := flag.Bool("h", false, "show help")
	envFilename := flag.String("f", "", "path to the .env file")
	flag.Parse()

	if *showHelp {
		fmt.Print(usage)
		return
	}

	if *envFilename != "" {
		log.Printf("Loading environment from %s\n", *envFilename)
		if err := godotenv.Load(*envFilename); err != nil {
			log.Fatalf("Failed to load %s: %v\n", *envFilename, err)
		}
	} else {
		log.Println("No env file given, using the current environment")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	var containers *helpers.TestContainers
	go func() {
		var err error
		containers, err = helpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to start containers: %v\n", err)
		}
		log.Printf("Database ready at %s:%s, Ctrl-C to stop\n", containers.DBHost, containers.DBPort)
	}()

	sig := <-sigs
	log.Printf("\nReceived %v, terminating containers...\n", sig)
	if containers != nil {
		containers.Terminate(nil)
	}
}
