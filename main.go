package main

import "github.com/jmehdipour/matcha-call/cmd"

func main() {
	cmd.Execute()
}
