package main

import (
	"github.com/all-dot-files/wifiprov/internal/cli"
)

func main() {
	cli.Execute()
}
