package main

import (
	"os"

	"github.com/smallwat3r/passcheck/internal/console"
	"github.com/smallwat3r/passcheck/internal/menu"
)

func main() {
	menu.Run(console.New(os.Stdin, os.Stdout))
}
