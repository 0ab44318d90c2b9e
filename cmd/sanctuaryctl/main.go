package main

import (
	"os"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/cli"
)

var version = "dev"

func main() {
	// go-flags has already printed the error.
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
