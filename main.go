package main

import (
	"github.com/pianoscribe/pianoscribe/cmd"
)

func main() {
	cmd.Execute()
}
