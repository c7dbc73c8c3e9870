// Package xmlutils provides the XPath helpers used to read XML message backups.
package xmlutils

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// ParseXML parses an XML document and returns its root node.
func ParseXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// Nodes returns every node matched by xpath.
func Nodes(root *xmlpath.Node, xpath string) ([]*xmlpath.Node, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var nodes []*xmlpath.Node
	iter := path.Iter(root)
	for iter.Next() {
		nodes = append(nodes, iter.Node())
	}
	return nodes, nil
}

// Value returns the first value of xpath relative to node, or "".
func Value(node *xmlpath.Node, xpath string) string {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return ""
	}
	value, _ := path.String(node)
	return value
}

// CleanText collapses runs of whitespace, tabs and newlines into single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
