package main

import "treedit/cmd/treedit-cli/cmd"

func main() {
	cmd.Execute()
}
