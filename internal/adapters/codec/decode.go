package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"treedit/internal/domain"
)

func decodeYAML(data []byte) (*domain.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []*domain.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		n, err := fromYAML(&doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, n)
	}

	switch len(docs) {
	case 0:
		return domain.Null(), nil
	case 1:
		return docs[0], nil
	}
	return domain.MultiDoc(docs...), nil
}

func decodeJSONLines(data []byte) (*domain.Node, error) {
	var docs []*domain.Node
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", line, err)
		}
		n, err := fromYAML(&doc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return domain.MultiDoc(docs...), nil
}

// fromYAML converts a parsed yaml.v3 node into a tree. Comments attached to
// keys and items become comment nodes next to them.
func fromYAML(y *yaml.Node) (*domain.Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return domain.Null(), nil
		}
		n, err := fromYAML(y.Content[0])
		if err != nil {
			return nil, err
		}
		wrapDocumentComments(n, y)
		return n, nil

	case yaml.MappingNode:
		obj := domain.Object()
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if obj.IndexOfKey(k.Value) >= 0 {
				return nil, fmt.Errorf("line %d: %w %q", k.Line, domain.ErrDuplicateKey, k.Value)
			}
			for _, c := range commentLines(k.HeadComment) {
				obj.Entries = append(obj.Entries, domain.E("", domain.Comment(c, domain.CommentAbove)))
			}
			value, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			obj.Entries = append(obj.Entries, domain.E(k.Value, value))
			for _, c := range commentLines(firstNonEmpty(v.LineComment, k.LineComment)) {
				obj.Entries = append(obj.Entries, domain.E("", domain.Comment(c, domain.CommentInline)))
			}
			for _, c := range commentLines(firstNonEmpty(k.FootComment, v.FootComment)) {
				obj.Entries = append(obj.Entries, domain.E("", domain.Comment(c, domain.CommentBelow)))
			}
		}
		obj.Meta.Anchor = y.Anchor
		return obj, nil

	case yaml.SequenceNode:
		arr := domain.Array()
		for _, item := range y.Content {
			for _, c := range commentLines(item.HeadComment) {
				arr.Items = append(arr.Items, domain.Comment(c, domain.CommentAbove))
			}
			value, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, value)
			for _, c := range commentLines(item.LineComment) {
				arr.Items = append(arr.Items, domain.Comment(c, domain.CommentInline))
			}
			for _, c := range commentLines(item.FootComment) {
				arr.Items = append(arr.Items, domain.Comment(c, domain.CommentBelow))
			}
		}
		arr.Meta.Anchor = y.Anchor
		return arr, nil

	case yaml.AliasNode:
		return domain.Alias(y.Value), nil

	case yaml.ScalarNode:
		n, err := scalarFromYAML(y)
		if err != nil {
			return nil, err
		}
		n.Meta.Anchor = y.Anchor
		return n, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", y.Line, y.Kind)
}

func scalarFromYAML(y *yaml.Node) (*domain.Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return domain.Null(), nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, err
		}
		return domain.Bool(b), nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err == nil {
			n := domain.Int(i)
			if strconv.FormatInt(i, 10) != y.Value {
				n.Raw = y.Value
			}
			return n, nil
		}
		// too large for int64
		f, err := strconv.ParseFloat(y.Value, 64)
		if err != nil {
			return domain.String(y.Value), nil
		}
		n := domain.Float(f)
		n.Raw = y.Value
		return n, nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, err
		}
		n := domain.Float(f)
		n.Raw = y.Value
		return n, nil
	}

	switch y.Style {
	case yaml.LiteralStyle:
		return domain.BlockString(y.Value, domain.StyleLiteral), nil
	case yaml.FoldedStyle:
		return domain.BlockString(y.Value, domain.StyleFolded), nil
	}
	return domain.String(y.Value), nil
}

// wrapDocumentComments moves comments attached to the document into the root container
func wrapDocumentComments(n *domain.Node, doc *yaml.Node) {
	head := commentLines(doc.HeadComment)
	foot := commentLines(doc.FootComment)
	if len(head) == 0 && len(foot) == 0 {
		return
	}
	switch n.Kind {
	case domain.KindObject:
		var entries []domain.Entry
		for _, c := range head {
			entries = append(entries, domain.E("", domain.Comment(c, domain.CommentAbove)))
		}
		entries = append(entries, n.Entries...)
		for _, c := range foot {
			entries = append(entries, domain.E("", domain.Comment(c, domain.CommentBelow)))
		}
		n.Entries = entries
	case domain.KindArray:
		var items []*domain.Node
		for _, c := range head {
			items = append(items, domain.Comment(c, domain.CommentAbove))
		}
		items = append(items, n.Items...)
		for _, c := range foot {
			items = append(items, domain.Comment(c, domain.CommentBelow))
		}
		n.Items = items
	}
}

// commentLines splits a yaml.v3 comment block into lines without the leading "#"
func commentLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "#")
		out = append(out, strings.TrimPrefix(line, " "))
	}
	return out
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
