package main

import "github.com/strrl/mdwriter/cmd/mdwriter/commands"

func main() {
	commands.Execute()
}
