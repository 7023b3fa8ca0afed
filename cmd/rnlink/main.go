package main

import "rnlink/internal/cli"

func main() {
	cli.Execute()
}
