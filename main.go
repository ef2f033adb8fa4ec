package main

import "github.com/chrisuehlinger/tinyrender/cmd"

func main() {
	cmd.Execute()
}
