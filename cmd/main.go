package main

import "github.com/edp1096/toy-pv/internal/cli"

func main() {
	cli.Execute()
}
