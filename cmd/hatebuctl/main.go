package main

import (
	"os"

	"github.com/MrSnakeDoc/hatebu/internal/cli"
	"github.com/MrSnakeDoc/hatebu/internal/config"
)

func main() {
	config.LoadDotEnv()
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
