package main

import "github.com/diogo/sportchat/internal/commands"

func main() {
	commands.Execute()
}
