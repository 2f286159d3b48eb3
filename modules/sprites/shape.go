package sprites

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// skippedAttrs are root attributes that the sprite replaces or that only make
// sense on a standalone document.
var skippedAttrs = map[string]bool{
	"xmlns":   true,
	"id":      true,
	"viewBox": true,
	"width":   true,
	"height":  true,
	"version": true,
}

type shape struct {
	id      string
	viewBox string
	// attrs are the remaining presentation attributes of the root element.
	attrs []xml.Attr
	inner []byte
}

// parseShape extracts the viewBox, presentation attributes and raw inner
// markup of an SVG document's root element.
func parseShape(doc []byte) (*shape, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var (
		s          *shape
		depth      int
		innerStart int64
	)
	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("svg: document has no closed root element")
		}
		if err != nil {
			return nil, fmt.Errorf("svg: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if s == nil {
				if el.Name.Local != "svg" {
					return nil, fmt.Errorf("svg: root element is <%s>, want <svg>", el.Name.Local)
				}
				s = rootShape(el)
				innerStart = dec.InputOffset()
				continue
			}
			depth++
		case xml.EndElement:
			if depth > 0 {
				depth--
				continue
			}
			if s != nil {
				s.inner = bytes.TrimSpace(doc[innerStart:before])
				return s, nil
			}
		}
	}
}

func rootShape(el xml.StartElement) *shape {
	s := &shape{}
	var width, height string
	for _, a := range el.Attr {
		switch {
		case a.Name.Space != "":
			continue
		case a.Name.Local == "viewBox":
			s.viewBox = a.Value
		case a.Name.Local == "width":
			width = a.Value
		case a.Name.Local == "height":
			height = a.Value
		case !skippedAttrs[a.Name.Local]:
			s.attrs = append(s.attrs, a)
		}
	}
	if s.viewBox == "" && width != "" && height != "" {
		s.viewBox = fmt.Sprintf("0 0 %s %s", strings.TrimSuffix(width, "px"), strings.TrimSuffix(height, "px"))
	}
	return s
}

const spriteStyle = ":root>svg{display:none}:root>svg:target{display:block}"

// render writes the stacked sprite: only the shape named by the URL
// fragment is displayed.
func render(shapes []*shape) []byte {
	var b bytes.Buffer
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`)
	b.WriteString("<style>" + spriteStyle + "</style>")
	for _, s := range shapes {
		b.WriteString(`<svg id="`)
		escape(&b, s.id)
		b.WriteByte('"')
		if s.viewBox != "" {
			b.WriteString(` viewBox="`)
			escape(&b, s.viewBox)
			b.WriteByte('"')
		}
		for _, a := range s.attrs {
			b.WriteString(" " + a.Name.Local + `="`)
			escape(&b, a.Value)
			b.WriteByte('"')
		}
		b.WriteByte('>')
		b.Write(s.inner)
		b.WriteString("</svg>")
	}
	b.WriteString("</svg>")
	return b.Bytes()
}

func escape(b *bytes.Buffer, v string) {
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(b, []byte(v))
}
