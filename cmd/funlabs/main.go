package main

import "funlabs/internal/cli"

func main() {
	cli.Execute()
}
