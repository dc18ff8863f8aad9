package common

import (
	"fmt"
	"os"
	"runtime/debug"
)

// PanicHandler should be deferred at the top of main.
func PanicHandler() {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "Panic caught in tswindow: %v\n", r)
		debug.PrintStack()
		os.Exit(1)
	}
}
