// Command crudauth is a CLI for the crudauth API.
//
//	crudauth items add --name pen --description blue
//	crudauth auth register ram --password 1234
//	crudauth auth login ram
//	crudauth books list
package main

import (
	"fmt"
	"os"

	"github.com/sakif/crudauth/internal/client/cmd"
)

var version = "dev"

func main() {
	root := cmd.NewRootCmd(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
