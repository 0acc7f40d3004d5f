package main

import (
	"fmt"
	"os"
)

func main() {
	root, a := newRootCmd()
	err := root.Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
