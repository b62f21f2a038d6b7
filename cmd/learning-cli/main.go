package main

import "github.com/xstraven/mcp-server-learning/cmd/learning-cli/cmd"

func main() {
	cmd.Execute()
}
