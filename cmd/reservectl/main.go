package main

import "mesaYaReservas/internal/cli"

func main() {
	cli.Execute()
}
