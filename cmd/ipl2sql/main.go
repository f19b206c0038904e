// Command ipl2sql loads Apache access logs into a SQL table.
package main

import (
	"os"

	"github.com/roach88/ipl2sql/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
