package main

import (
	"os"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
