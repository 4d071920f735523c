package main

import "github.com/mcoot/ffmarket/internal/cli"

func main() {
	cli.Execute()
}
