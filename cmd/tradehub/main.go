package main

import "github.com/rustyeddy/tradehub/internal/cli"

func main() {
	cli.Execute()
}
