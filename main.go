package main

import (
	"fmt"
	"os"

	"github.com/monoid-privacy/cpg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
