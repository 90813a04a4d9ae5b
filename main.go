package main

import "github.com/Ananth-NQI/kilimo-smart/internal/cli"

func main() {
	cli.Execute()
}
