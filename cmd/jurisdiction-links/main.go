package main

import "github.com/pfrederiksen/jurisdiction-links/internal/cli"

func main() {
	cli.Execute()
}
