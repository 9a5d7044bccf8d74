package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// DefaultViewBox is used when the SVG carries no measurable size.
const DefaultViewBox = "0 0 800 600"

const fitStyle = "display:block;margin:auto;max-width:100%;max-height:100%"

// ErrNoSVG is returned by Fit when the input holds no <svg> element.
var ErrNoSVG = errors.New("render: no svg element")

// Fit makes a rendered SVG scale to its container: fixed width and height
// become 100%, a viewBox is guaranteed, and the element is centred.
func Fit(svg string) (string, error) {
	out, _, err := FitBox(svg)
	return out, err
}

// FitBox is Fit that also returns the viewBox in effect.
func FitBox(svg string) (string, string, error) {
	doc, err := html.Parse(strings.NewReader(svg))
	if err != nil {
		return "", "", fmt.Errorf("parse svg: %w", err)
	}
	root := findSVG(doc)
	if root == nil {
		return "", "", ErrNoSVG
	}

	width, _ := attr(root, "width")
	height, _ := attr(root, "height")
	viewBox, ok := attr(root, "viewBox")
	if !ok || strings.TrimSpace(viewBox) == "" {
		viewBox = measure(width, height)
		setAttr(root, "viewBox", viewBox)
	}
	setAttr(root, "width", "100%")
	setAttr(root, "height", "100%")

	style, _ := attr(root, "style")
	style = strings.TrimRight(strings.TrimSpace(style), ";")
	if style != "" {
		style += ";"
	}
	setAttr(root, "style", style+fitStyle)

	var b strings.Builder
	if err := html.Render(&b, root); err != nil {
		return "", "", fmt.Errorf("render svg: %w", err)
	}
	return b.String(), viewBox, nil
}

// measure derives a viewBox from width and height attributes, falling back
// to DefaultViewBox unless both are positive numbers.
func measure(width, height string) string {
	w, okW := dimension(width)
	h, okH := dimension(height)
	if !okW || !okH {
		return DefaultViewBox
	}
	return "0 0 " + strconv.FormatFloat(w, 'f', -1, 64) + " " + strconv.FormatFloat(h, 'f', -1, 64)
}

func dimension(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "svg" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
