package tylerr

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	pkg "github.com/pkg/errors"
)

// stack is the set of program counters captured when an error was built.
type stack []uintptr

func (s *stack) Format(st fmt.State, verb rune) {
	switch verb {
	case 'v':
		if st.Flag('+') {
			for _, pc := range *s {
				fmt.Fprintf(st, "\n%+v", pkg.Frame(pc))
			}
		}
	}
}

// StackTrace returns the captured frames in pkg/errors form.
func (s *stack) StackTrace() pkg.StackTrace {
	f := make([]pkg.Frame, len(*s))
	for i := 0; i < len(f); i++ {
		f[i] = pkg.Frame((*s)[i])
	}
	return f
}

// caller identifies the construction site of an error.
type caller struct {
	Func string
	File string
	Line int
}

// firstFrame resolves the outermost captured frame, the line that called the
// error constructor.
func (s *stack) firstFrame() caller {
	if s == nil || len(*s) == 0 {
		return caller{}
	}
	pc := (*s)[0] - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return caller{}
	}
	file, line := fn.FileLine(pc)
	return caller{Func: funcName(fn.Name()), File: filepath.Base(file), Line: line}
}

func funcName(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return path
	}
	return path[idx+1:] + "()"
}

// callers records the current stack, skipping the given number of frames
// between the call site of callers and the frames of interest.
func callers(skip int) *stack {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	var st stack = pcs[0:n]
	return &st
}

// StackTrace returns the stack captured at construction, or nil when
// backtraces were disabled.
func (e *Error) StackTrace() pkg.StackTrace {
	if e.stack == nil {
		return nil
	}
	return e.stack.StackTrace()
}
