package main

import "mudlark/cmd"

func main() {
	cmd.Execute()
}
