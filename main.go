// Command libraryctl is a terminal client for the library management API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"library-client/api"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	a := newApp(in, out, errOut)
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		// Failed API calls were already reported by the error notification.
		if kind := api.KindOf(err); kind == "" || kind == api.ErrorKindInvalidInput {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
