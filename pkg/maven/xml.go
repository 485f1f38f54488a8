package maven

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// readDocument parses data strictly: undefined entities and stray '&' are
// parse errors. Declared encodings other than UTF-8 are transcoded.
func readDocument(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errEmptyDocument
	}
	return root, nil
}

// text returns the trimmed text of the first element matching path under
// el, or "" when there is none. Unprefixed path steps match any namespace.
func text(el *etree.Element, path string) string {
	if found := el.FindElement(path); found != nil {
		return strings.TrimSpace(found.Text())
	}
	return ""
}
