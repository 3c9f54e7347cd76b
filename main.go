package main

import "github.com/chartloom/chartloom-cli/cmd"

func main() {
	cmd.Execute()
}
