package main

import "github.com/mpark/mpint/cmd"

func main() {
	cmd.Execute()
}
