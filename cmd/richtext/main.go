// Command richtext converts Markdown and HTML into rich-text documents,
// renders documents back to Markdown or HTML and moves converted fields in
// and out of the entry store.
package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-richtext/cmd/richtext/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
