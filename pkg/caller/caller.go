package caller

import (
	"runtime"
	"strings"
)

// Name returns the name of the function or method that called the
// function which called Name. Used to name tracing spans after their
// enclosing function without repeating the name by hand:
//
//	func Partition(...) {
//		_, span := tracer.Start(ctx, caller.Name()) // span "Partition"
//		...
//	}
//
// Pass an offset to look further up the stack.
func Name(offsetOpt ...int) string {
	offset := 1
	if len(offsetOpt) > 0 {
		offset += offsetOpt[0]
	}

	pc, _, _, ok := runtime.Caller(offset)
	details := runtime.FuncForPC(pc)
	if !ok || details == nil {
		return ""
	}

	parts := strings.Split(details.Name(), ".")
	if len(parts) == 0 {
		return ""
	}

	// Calls from anonymous functions show up as a trailing "funcN"
	// element, which names nothing useful.
	if strings.HasPrefix(parts[len(parts)-1], "func") {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return ""
	}

	// Methods carry the receiver, e.g. [".../shm", "(*Cell)",
	// "UpdateMax"]. Keep receiver and method, strip the pointer
	// decoration.
	if len(parts) > 2 {
		typeName := strings.Trim(parts[len(parts)-2], "(*)")
		return typeName + "." + parts[len(parts)-1]
	}

	return parts[len(parts)-1]
}
