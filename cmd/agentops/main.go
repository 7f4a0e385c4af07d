package main

import "github.com/eliu243/agentops-sdk/internal/cli"

func main() {
	cli.Execute()
}
