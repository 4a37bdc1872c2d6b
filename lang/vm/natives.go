package vm

import (
	"bufio"

	"github.com/mna/syphon/lang/gc"
	"github.com/mna/syphon/lang/value"
)

// defineNatives registers print and println, grounded on
// original_source/crates/vm/src/lib.rs's init_globals: each call scopes
// its own bufio.Writer rather than sharing one across calls, so a native
// that panics mid-write never leaves a half-flushed buffer for the next
// call to inherit. print writes a single argument bare, but a trailing
// space after every argument once there is more than one; println always
// trails every argument with a space, then a final newline - kept
// verbatim from the original rather than "cleaned up" into a
// space-joined style, since spec.md's example transcripts (e.g.
// `println(1+2*3)` producing "7 \n") depend on this exact spacing.
func (vm *VM) defineNatives() {
	vm.DefineNative("print", -1, func(h *gc.Heap, args []value.Value) (value.Value, error) {
		w := bufio.NewWriter(vm.Stdout)
		if len(args) == 1 {
			w.WriteString(args[0].Display(h))
		} else {
			for _, a := range args {
				w.WriteString(a.Display(h))
				w.WriteByte(' ')
			}
		}
		w.Flush()
		return value.NoneValue(), nil
	})

	vm.DefineNative("println", -1, func(h *gc.Heap, args []value.Value) (value.Value, error) {
		w := bufio.NewWriter(vm.Stdout)
		for _, a := range args {
			w.WriteString(a.Display(h))
			w.WriteByte(' ')
		}
		w.WriteByte('\n')
		w.Flush()
		return value.NoneValue(), nil
	})
}
