package main

import "github.com/sephli/timescope/internal/cli"

func main() {
	cli.Execute()
}
