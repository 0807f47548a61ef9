package main

import "desksync/cmd"

func main() {
	cmd.Execute()
}
