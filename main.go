package main

import "github.com/diogo/companion/internal/commands"

func main() {
	commands.Execute()
}
