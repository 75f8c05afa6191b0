package main

import "chartdeps/internal/cli"

func main() {
	cli.Execute()
}
