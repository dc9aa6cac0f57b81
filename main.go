package main

import "github.com/isdelr/fintrack-be/cmd"

func main() {
	cmd.Execute()
}
