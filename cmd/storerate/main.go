// Command storerate is the terminal client of the store-rating platform.
package main

import (
	"os"

	"github.com/MrEthical07/goRate/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
