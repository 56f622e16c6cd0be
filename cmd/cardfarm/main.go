package main

import "github.com/andrescamacho/cardfarm-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
