package pkgbuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"text/template"
	"text/template/parse"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// templateFuncs are available to index.html templates.
var templateFuncs = template.FuncMap{
	// stringify renders any value as JSON, e.g. {{stringify .config}}.
	"stringify": func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	},
}

// jsMediaType matches the script types handed to the JS minifier.
var jsMediaType = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)

// RenderOptions controls HTML rendering.
type RenderOptions struct {
	// Minify collapses whitespace and minifies inline CSS and JS.
	Minify bool
}

// RenderHTML renders tmpl with vars. Values are inserted without HTML
// escaping; fields missing from vars render as empty strings.
func RenderHTML(tmpl string, vars map[string]any, opts RenderOptions) (string, error) {
	t, err := template.New("index.html").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, withMissingFields(t, vars)); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	out := buf.String()

	if !opts.Minify {
		return out, nil
	}
	return MinifyHTML(out)
}

// MinifyHTML collapses whitespace in an HTML document and minifies its
// inline <style> and <script> content. Document tags, end tags and
// attribute quotes are kept.
func MinifyHTML(doc string) (string, error) {
	out, err := newMinifier().String("text/html", doc)
	if err != nil {
		return "", fmt.Errorf("minify html: %w", err)
	}
	return out, nil
}

// withMissingFields returns a copy of vars in which every top-level field
// the template prints directly ({{.name}}) but vars lacks is set to "".
// text/template would print such fields as "<no value>".
func withMissingFields(t *template.Template, vars map[string]any) map[string]any {
	data := make(map[string]any, len(vars))
	for k, v := range vars {
		data[k] = v
	}
	for _, tmpl := range t.Templates() {
		if tmpl.Tree == nil {
			continue
		}
		walkFields(tmpl.Tree.Root, func(name string) {
			if _, ok := data[name]; !ok {
				data[name] = ""
			}
		})
	}
	return data
}

// walkFields calls fn with the name of every single-identifier field node
// ({{.name}}) below n. Chained fields such as {{.config.webapi}} are
// skipped; an empty string in their place would fail evaluation.
func walkFields(n parse.Node, fn func(string)) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walkFields(c, fn)
		}
	case *parse.ActionNode:
		walkFields(n.Pipe, fn)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, c := range n.Cmds {
			walkFields(c, fn)
		}
	case *parse.CommandNode:
		for _, a := range n.Args {
			walkFields(a, fn)
		}
	case *parse.ChainNode:
		walkFields(n.Node, fn)
	case *parse.FieldNode:
		if len(n.Ident) == 1 {
			fn(n.Ident[0])
		}
	case *parse.IfNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.TemplateNode:
		walkFields(n.Pipe, fn)
	}
}

func walkBranch(b *parse.BranchNode, fn func(string)) {
	walkFields(b.Pipe, fn)
	walkFields(b.List, fn)
	walkFields(b.ElseList, fn)
}

func newMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(jsMediaType, js.Minify)
	return m
}
