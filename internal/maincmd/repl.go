package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/syphon"
	"github.com/mna/syphon/lang/value"
)

func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return Repl(ctx, stdio, c.MaxCallDepth)
}

// Repl runs a line-at-a-time read-eval-print loop: each line is compiled
// and run as its own REPL-mode chunk on a single, long-lived VM, so
// variables and functions declared on one line remain visible on the
// next. Grounded on spec.md §6's "Driver glue" RunREPLLine entry point;
// the teacher has no REPL command to ground the surrounding loop on, so
// its shape instead follows the same Stdio-driven, per-line I/O idiom
// _examples/mna-nenuphar/internal/maincmd/tokenize.go uses for stdout.
func Repl(ctx context.Context, stdio mainer.Stdio, maxCallDepth int) error {
	v := syphon.NewVM(syphon.Config{MaxCallDepth: maxCallDepth, Stdout: stdio.Stdout})

	scanner := bufio.NewScanner(stdio.Stdin)
	fmt.Fprint(stdio.Stdout, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			result, err := syphon.RunREPLLine(v, []byte(line))
			if err != nil {
				fmt.Fprintf(stdio.Stderr, "%s\n", err)
			} else if result.Kind != value.None {
				fmt.Fprintf(stdio.Stdout, "%s\n", result.Display(v.Heap))
			}
		}
		fmt.Fprint(stdio.Stdout, "> ")
	}
	fmt.Fprintln(stdio.Stdout)
	return scanner.Err()
}
