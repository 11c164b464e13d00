package main

import (
	"fmt"
	"os"

	"github.com/trezcool/gce/apps/container"
	"github.com/trezcool/gce/core"
)

func main() {
	conf := core.NewConfig()
	logger := container.NewLogger(conf)

	c, err := container.New(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up services: %v", err), err)
	}

	// start CLI
	cli := newCommandLine(c, os.Stdout)
	err = cli.run(os.Args)
	if cErr := c.Close(); cErr != nil {
		logger.Error("Failed to close store", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}
