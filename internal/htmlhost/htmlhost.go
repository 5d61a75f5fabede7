// Package htmlhost applies the kansuji converter to the text of HTML
// documents, leaving code, scripts, form fields and editable regions
// alone.
package htmlhost

import (
	"fmt"
	"io"
	"strings"

	"github.com/kansuji-go/kansuji"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// excluded elements never have their text converted, nor does anything
// nested inside them.
var excluded = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Textarea: true,
	atom.Input:    true,
	atom.Code:     true,
	atom.Pre:      true,
}

// Stats counts what a Rewrite pass did.
type Stats struct {
	// Visited is the number of eligible text nodes seen.
	Visited int
	// Converted is the number of text nodes rewritten.
	Converted int
	// Skipped is the number of nodes still holding text this Rewriter
	// wrote in an earlier pass.
	Skipped int
}

// Rewriter converts eligible text nodes in place and remembers what it
// wrote, so a later pass over the same tree does not touch them again.
// A Rewriter is not safe for concurrent use.
type Rewriter struct {
	conv *kansuji.Converter
	log  *zap.Logger

	// written maps each node this Rewriter changed to the text it wrote.
	written map[*html.Node]string
}

// NewRewriter returns a Rewriter using conv. A nil logger disables
// logging.
func NewRewriter(conv *kansuji.Converter, log *zap.Logger) *Rewriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{
		conv:    conv,
		log:     log,
		written: make(map[*html.Node]string),
	}
}

// Rewrite converts every eligible text node under root. It can be called
// again on the same tree, or on newly inserted subtrees.
func (r *Rewriter) Rewrite(root *html.Node) Stats {
	var st Stats
	r.walk(root, &st)
	r.log.Debug("html rewrite",
		zap.Int("visited", st.Visited),
		zap.Int("converted", st.Converted),
		zap.Int("skipped", st.Skipped))
	return st
}

func (r *Rewriter) walk(n *html.Node, st *Stats) {
	if n.Type == html.ElementNode && excluded[n.DataAtom] {
		return
	}
	if n.Type == html.TextNode {
		r.visit(n, st)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c, st)
	}
}

func (r *Rewriter) visit(n *html.Node, st *Stats) {
	if !Eligible(n) {
		return
	}
	st.Visited++

	if prev, ok := r.written[n]; ok && prev == n.Data {
		st.Skipped++
		return
	}
	if !kansuji.NeedsConversion(n.Data) {
		return
	}

	out := r.conv.Convert(n.Data)
	if out == n.Data {
		return
	}
	n.Data = out
	r.written[n] = out
	st.Converted++
}

// Eligible reports whether n is a text node whose text may be converted:
// it has a parent element, no ancestor is an excluded element, and it is
// not inside an editable region.
func Eligible(n *html.Node) bool {
	if n.Type != html.TextNode || n.Parent == nil || n.Parent.Type != html.ElementNode {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && excluded[p.DataAtom] {
			return false
		}
	}
	return !editable(n.Parent)
}

// editable resolves the inherited contenteditable state of el.
func editable(el *html.Node) bool {
	for p := el; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		v, ok := attr(p, "contenteditable")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "true", "plaintext-only":
			return true
		case "false":
			return false
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// ConvertDocument parses a full HTML document from src, converts it and
// renders it to dst.
func ConvertDocument(conv *kansuji.Converter, src io.Reader, dst io.Writer) (Stats, error) {
	doc, err := html.Parse(src)
	if err != nil {
		return Stats{}, fmt.Errorf("parse html: %w", err)
	}
	st := NewRewriter(conv, nil).Rewrite(doc)
	if err := html.Render(dst, doc); err != nil {
		return st, fmt.Errorf("render html: %w", err)
	}
	return st, nil
}

// ConvertFragment is ConvertDocument for a body fragment: no html, head
// or body elements are added to the output.
func ConvertFragment(conv *kansuji.Converter, src io.Reader, dst io.Writer) (Stats, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(src, body)
	if err != nil {
		return Stats{}, fmt.Errorf("parse html fragment: %w", err)
	}

	rw := NewRewriter(conv, nil)
	var st Stats
	for _, n := range nodes {
		// Fragment roots have no parent; attach them so top-level text
		// is eligible.
		body.AppendChild(n)
		s := rw.Rewrite(n)
		st.Visited += s.Visited
		st.Converted += s.Converted
		st.Skipped += s.Skipped
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(dst, c); err != nil {
			return st, fmt.Errorf("render html: %w", err)
		}
	}
	return st, nil
}
