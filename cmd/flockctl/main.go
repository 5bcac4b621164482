// Command flockctl runs the farm analytics against the workbook from a terminal.
package main

import (
	"os"
	_ "time/tzdata"
)

func main() {
	if err := newRootCmd(openService).Execute(); err != nil {
		os.Exit(1)
	}
}
