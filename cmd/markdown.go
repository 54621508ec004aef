package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
)

var plainFlag = flag.Bool("plain", false, "Print reports as raw markdown instead of rendering them for the terminal")

// printMarkdown renders md for the terminal, falling back to the raw markdown.
func printMarkdown(md string) {
	if *plainFlag {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
