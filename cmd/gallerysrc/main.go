package main

import "github.com/kailas-cloud/gallerysrc/internal/cli"

func main() {
	cli.Execute()
}
