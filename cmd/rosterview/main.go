// Command rosterview browses hackathon teams and their members' profiles.
package main

import (
	"fmt"
	"os"

	"github.com/rshade/rosterview/internal/cli"
	"github.com/rshade/rosterview/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}
