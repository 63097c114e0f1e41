package main

import "github.com/mvp-joe/csplice/internal/cli"

func main() {
	cli.Execute()
}
