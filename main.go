package main

import "github.com/djcass44/launchpad-tracker/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
