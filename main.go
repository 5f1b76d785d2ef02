package main

import "github.com/andresmejia3/rosterface/cmd"

func main() {
	cmd.Execute()
}
