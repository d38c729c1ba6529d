package verify

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/beevik/etree"
)

// CheckSVG validates that data is a well-formed SVG document with a
// viewBox on its root element.
func CheckSVG(data []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return errors.Wrap(err, errors.ErrSVGMalformed, "not well-formed XML")
	}

	root := doc.Root()
	if root == nil {
		return errors.New(errors.ErrSVGMalformed, "no root element")
	}
	if root.Tag != "svg" {
		return errors.Newf(errors.ErrSVGRoot, "root element is <%s>, want <svg>", root.FullTag())
	}
	if strings.TrimSpace(root.SelectAttrValue("viewBox", "")) == "" {
		return errors.New(errors.ErrSVGViewBox, "<svg> has no viewBox")
	}
	return nil
}

func isSVG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".svg")
}
