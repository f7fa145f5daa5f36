package main

import (
	"github.com/klabast/gemeinde-portal/abfall-feed/internal/commands"
)

func main() {
	commands.Execute()
}
