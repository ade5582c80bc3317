package main

import "pipepeek/internal/cli"

func main() {
	cli.Execute()
}
