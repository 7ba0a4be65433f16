package main

import "github.com/ismscore/scoreconv/cmd"

func main() {
	cmd.Execute()
}
