package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/syphon/lang/compiler"
	"github.com/mna/syphon/lang/disasm"
	"github.com/mna/syphon/lang/parser"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisasmFiles(ctx, stdio, args...)
}

// DisasmFiles prints the bytecode of each file's Script-mode compilation,
// without loading it onto a VM heap - the compiler's Chunk already has
// everything disasm.Chunk needs.
func DisasmFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}

		mod, err := parser.ParseModule(src)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}
		chunk, err := compiler.CompileModule(mod, compiler.Script)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			return err
		}
		fmt.Fprintf(stdio.Stdout, "; %s\n%s", file, disasm.Chunk(chunk))
	}
	return nil
}
