package main

import (
	"github.com/custodia-labs/forgedash/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
