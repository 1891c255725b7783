package main

import (
	"fmt"
	"os"

	"github.com/taskmaster/todoboard/cmd/api/commands"
)

// @title Todo Board API
// @version 1.0
// @description Shared TODO board with search, status, people and deadline filters

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
