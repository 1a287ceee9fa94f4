package main

import (
	"gapfill/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
