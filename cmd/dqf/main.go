package main

import (
	"os"

	"github.com/matecat/go-dqf/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
