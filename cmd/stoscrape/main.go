package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	c := &cli{
		stdout: os.Stdout,
		stderr: os.Stderr,
		fs:     afero.NewOsFs(),
		cwd:    cwd,
	}
	os.Exit(c.execute(os.Args[1:]))
}
