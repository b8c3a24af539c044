package main

import (
	"fmt"
	"io"
)

const (
	colorGreen  = "\033[0;32m"
	colorRed    = "\033[0;31m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

// printer writes colored status lines to a command's output
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer {
	return printer{w: w}
}

func (p printer) Info(format string, a ...any) {
	fmt.Fprintf(p.w, colorBlue+"ℹ "+format+colorReset+"\n", a...)
}

func (p printer) Success(format string, a ...any) {
	fmt.Fprintf(p.w, colorGreen+"✓ "+format+colorReset+"\n", a...)
}

func (p printer) Warning(format string, a ...any) {
	fmt.Fprintf(p.w, colorYellow+"⚠ "+format+colorReset+"\n", a...)
}

func (p printer) Error(format string, a ...any) {
	fmt.Fprintf(p.w, colorRed+"✗ "+format+colorReset+"\n", a...)
}

func (p printer) Header(title string) {
	fmt.Fprintf(p.w, "\n"+colorYellow+"=== %s ==="+colorReset+"\n", title)
}
