package main

import "github.com/maduarte/chatdeck/internal/commands"

func main() {
	commands.Execute()
}
