package main

import (
	"os"

	"github.com/teranos/gladegen/cmd/gladegen/commands"
)

func main() {
	os.Exit(commands.Execute())
}
