// oswview - OSW feature extraction for ion-mobility data
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/oswview/cmd/oswview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
