// Command ecsaccess checks ECS schedules for conflicting system access.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ecsaccess/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
