package main

import "github.com/aqasim81/runonce/internal/cli"

func main() {
	cli.Execute()
}
