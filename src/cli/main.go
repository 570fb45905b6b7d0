package main

import (
	"os"

	"github.com/zervdev/zerv/src/cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
