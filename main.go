package main

import "pingdrop/cmd"

func main() {
	cmd.Execute()
}
