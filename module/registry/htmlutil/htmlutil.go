// Package htmlutil scrapes the small HTML pages registries serve: index
// listings and package summary tables.
package htmlutil

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Anchors returns the href of every <a> element in document order.
func Anchors(r io.Reader) ([]string, error) {
	var hrefs []string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return hrefs, nil
			}
			return nil, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "href" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
	}
}

// TableValue finds the table row whose first cell reads label and returns
// the text of the following cell. ok is false when no such row exists.
//
//	<tr><td>Version:</td><td>3.4.4</td></tr>
func TableValue(r io.Reader, label string) (value string, ok bool, err error) {
	var (
		inCell    bool
		cell      strings.Builder
		wantValue bool
	)

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", false, nil
			}
			return "", false, z.Err()

		case html.StartTagToken:
			switch z.Token().Data {
			case "td", "th":
				inCell = true
				cell.Reset()
			case "tr":
				wantValue = false
			}

		case html.TextToken:
			if inCell {
				cell.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) != "td" && string(name) != "th" {
				continue
			}
			inCell = false
			text := strings.TrimSpace(cell.String())
			if wantValue {
				return text, true, nil
			}
			wantValue = text == label
		}
	}
}
