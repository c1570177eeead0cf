package main

import "stagbc/cmd"

func main() {
	cmd.Execute()
}
