package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/syphon"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, c.MaxCallDepth, args...)
}

// RunFiles compiles and runs each file in turn, sharing no state between
// files (each gets its own VM), grounded on
// _examples/mna-nenuphar/internal/maincmd/tokenize.go's "one phase
// function per exported Cmd method, usable standalone" shape.
func RunFiles(ctx context.Context, stdio mainer.Stdio, maxCallDepth int, files ...string) error {
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}

		v := syphon.NewVM(syphon.Config{MaxCallDepth: maxCallDepth, Stdout: stdio.Stdout})
		if _, err := syphon.Run(v, src); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}
	}
	return nil
}
