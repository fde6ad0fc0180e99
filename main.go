package main

import "github.com/apkcrawl/apkcrawl-cli/cmd"

func main() {
	cmd.Execute()
}
