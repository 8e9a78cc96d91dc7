package main

import "github.com/custodia-labs/embedprep-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
