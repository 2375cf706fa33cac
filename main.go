package main

import "manabify/cmd"

func main() {
	cmd.Execute()
}
