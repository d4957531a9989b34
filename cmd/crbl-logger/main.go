// Command crbl-logger runs one node of a federated log-tail cluster.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/zoro-99/crbl-logger/internal/appcmd"
)

func main() {
	if err := appcmd.Root().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
