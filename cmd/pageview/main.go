package main

import "github.com/devicelab-dev/pageview/pkg/cli"

func main() {
	cli.Execute()
}
