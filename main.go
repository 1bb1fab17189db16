package main

import "github.com/jwalton/imgurdl/cmd"

func main() {
	cmd.Execute()
}
