package main

import "github.com/keepr/mediakit/cmd"

func main() {
	cmd.Execute()
}
