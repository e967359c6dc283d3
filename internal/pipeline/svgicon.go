package pipeline

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrMalformedSVG indicates the icon markup is not a well-formed XML document.
var ErrMalformedSVG = errors.New("malformed SVG")

// SVGDataURIPrefix prefixes every data URI produced by RecolorSVG.
const SVGDataURIPrefix = "data:image/svg+xml;base64,"

// Path positions rewritten by RecolorSVG.
const (
	backgroundPathIndex = 0
	iconPathIndex       = 1
)

// RecolorSVG overrides the fill of the first two <path> elements of an SVG
// document and returns the result as a base64 data URI.
//
// backgroundColor targets the path at document-order index 0, iconColor the
// path at index 1. An empty color leaves that path untouched, and a color whose
// path does not exist is ignored. Colors are written verbatim.
//
// Returns an error wrapping ErrMalformedSVG if the markup cannot be parsed.
func RecolorSVG(svgMarkup, backgroundColor, iconColor string) (string, error) {
	tokens, err := readSVG(svgMarkup)
	if err != nil {
		return "", err
	}

	fills := map[int]string{
		backgroundPathIndex: backgroundColor,
		iconPathIndex:       iconColor,
	}

	seen := 0
	for i, tok := range tokens {
		if seen > iconPathIndex {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "path" {
			continue
		}
		if color := fills[seen]; color != "" {
			tokens[i] = setAttr(start, "fill", color)
		}
		seen++
	}

	return SVGDataURIPrefix + base64.StdEncoding.EncodeToString(writeSVG(tokens)), nil
}

// RemoveSVGFills strips every unprefixed fill attribute from an SVG document
// so the shape can be colored from CSS.
func RemoveSVGFills(svgMarkup string) (string, error) {
	tokens, err := readSVG(svgMarkup)
	if err != nil {
		return "", err
	}

	for i, tok := range tokens {
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		kept := make([]xml.Attr, 0, len(start.Attr))
		for _, a := range start.Attr {
			if a.Name.Space == "" && a.Name.Local == "fill" {
				continue
			}
			kept = append(kept, a)
		}
		start.Attr = kept
		tokens[i] = start
	}

	return string(writeSVG(tokens)), nil
}

// entityDecl matches a general entity with a literal value in an internal
// DTD subset. Parameter and external entities are not expanded.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.:-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// readSVG tokenizes markup without namespace translation so prefixes survive
// the round trip. RawToken does not check nesting, so it is verified here.
// A leading byte order mark is dropped, and entities declared in the
// document's internal DTD subset are expanded.
func readSVG(markup string) ([]xml.Token, error) {
	markup = strings.TrimPrefix(markup, "\ufeff")

	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = make(map[string]string)

	var (
		tokens []xml.Token
		open   []xml.Name
		roots  int
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSVG, err)
		}
		tok = xml.CopyToken(tok)

		switch t := tok.(type) {
		case xml.StartElement:
			if len(open) == 0 {
				roots++
				if roots > 1 {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformedSVG)
				}
			}
			open = append(open, t.Name)
		case xml.EndElement:
			if len(open) == 0 || open[len(open)-1] != t.Name {
				return nil, fmt.Errorf("%w: unexpected closing tag </%s>", ErrMalformedSVG, qualifiedName(t.Name))
			}
			open = open[:len(open)-1]
		case xml.Directive:
			for _, m := range entityDecl.FindAllSubmatch(t, -1) {
				dec.Entity[string(m[1])] = string(m[2]) + string(m[3])
			}
		case xml.CharData:
			if len(open) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: text outside root element", ErrMalformedSVG)
			}
		}
		tokens = append(tokens, tok)
	}

	if len(open) > 0 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrMalformedSVG, qualifiedName(open[len(open)-1]))
	}
	if roots == 0 {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedSVG)
	}
	return tokens, nil
}

// writeSVG serializes tokens back to markup. An element with no content is
// written in its self-closing form.
func writeSVG(tokens []xml.Token) []byte {
	var buf bytes.Buffer
	for i := 0; i < len(tokens); i++ {
		switch t := tokens[i].(type) {
		case xml.StartElement:
			buf.WriteByte('<')
			buf.WriteString(qualifiedName(t.Name))
			for _, a := range t.Attr {
				buf.WriteByte(' ')
				buf.WriteString(qualifiedName(a.Name))
				buf.WriteString(`="`)
				buf.WriteString(attrEscaper.Replace(a.Value))
				buf.WriteByte('"')
			}
			if i+1 < len(tokens) {
				if end, ok := tokens[i+1].(xml.EndElement); ok && end.Name == t.Name {
					buf.WriteString("/>")
					i++
					continue
				}
			}
			buf.WriteByte('>')
		case xml.EndElement:
			buf.WriteString("</")
			buf.WriteString(qualifiedName(t.Name))
			buf.WriteByte('>')
		case xml.CharData:
			buf.WriteString(textEscaper.Replace(string(t)))
		case xml.Comment:
			buf.WriteString("<!--")
			buf.Write(t)
			buf.WriteString("-->")
		case xml.ProcInst:
			buf.WriteString("<?")
			buf.WriteString(t.Target)
			if len(t.Inst) > 0 {
				buf.WriteByte(' ')
				buf.Write(t.Inst)
			}
			buf.WriteString("?>")
		case xml.Directive:
			buf.WriteString("<!")
			buf.Write(t)
			buf.WriteByte('>')
		}
	}
	return buf.Bytes()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// setAttr returns a copy of start with the unprefixed attribute key set to value.
func setAttr(start xml.StartElement, key, value string) xml.StartElement {
	attrs := make([]xml.Attr, 0, len(start.Attr)+1)
	replaced := false
	for _, a := range start.Attr {
		if a.Name.Space == "" && a.Name.Local == key {
			a.Value = value
			replaced = true
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: key}, Value: value})
	}
	start.Attr = attrs
	return start
}

// qualifiedName renders a raw (untranslated) name as prefix:local.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
