package main

import "github.com/agentic-research/bpkit/cmd"

func main() {
	cmd.Execute()
}
