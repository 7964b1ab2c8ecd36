package main

import "os"

// version is injected at build time.
var version = "dev"

func main() {
	os.Exit(execute())
}
