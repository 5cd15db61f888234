package main

import "github.com/convive/convive/internal/cli"

func main() {
	cli.Execute()
}
