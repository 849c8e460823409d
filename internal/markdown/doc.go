// Package markdown wires the goldmark grammar into the rich-text pipeline:
// it parses Markdown into the generic syntax tree, loads front-matter source
// files from disk, converts them into documents and imports them into the
// entry field store.
package markdown
