package main

import "github.com/turnagent/core/cmd"

func main() {
	cmd.Execute()
}
