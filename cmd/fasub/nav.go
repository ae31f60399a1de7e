package main

import (
	"fmt"
	"io"
)

func printNavLink(w io.Writer, label string, id *int) {
	if id == nil {
		return
	}
	fmt.Fprintf(w, "  %-6s   %d\n", label+":", *id)
}
