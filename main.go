// ./main.go
package main

import (
	"github.com/xkilldash9x/softphys/cmd"
)

// main is the entry point for the softphys CLI.
func main() {
	cmd.Execute()
}
