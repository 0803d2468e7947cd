package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"treedit/internal/domain"
)

func encodeYAML(root *domain.Node, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	docs := []*domain.Node{root}
	if root.Kind == domain.KindMultiDoc {
		docs = root.Items
	}
	for _, doc := range docs {
		y, err := toYAML(doc)
		if err != nil {
			return nil, err
		}
		if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{y}}); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAML(n *domain.Node) (*yaml.Node, error) {
	var y *yaml.Node
	switch n.Kind {
	case domain.KindObject:
		y = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var pending []string
		var lastKey, lastValue *yaml.Node
		for _, e := range n.Entries {
			if e.Value.Kind == domain.KindComment {
				pending = attachComment(e.Value, pending, lastKey, lastValue)
				continue
			}
			k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
			v, err := toYAML(e.Value)
			if err != nil {
				return nil, err
			}
			k.HeadComment = joinComments(pending)
			pending = nil
			y.Content = append(y.Content, k, v)
			lastKey, lastValue = k, v
		}
		flushComments(y, pending, lastKey)

	case domain.KindArray:
		y = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		var pending []string
		var last *yaml.Node
		for _, item := range n.Items {
			if item.Kind == domain.KindComment {
				pending = attachComment(item, pending, last, last)
				continue
			}
			v, err := toYAML(item)
			if err != nil {
				return nil, err
			}
			v.HeadComment = joinComments(pending)
			pending = nil
			y.Content = append(y.Content, v)
			last = v
		}
		flushComments(y, pending, last)
		if len(y.Content) == 0 {
			y.Style = yaml.FlowStyle
		}

	case domain.KindMultiDoc:
		return nil, domain.ErrNestedMultiDoc

	case domain.KindAlias:
		return &yaml.Node{Kind: yaml.AliasNode, Value: n.Text}, nil

	case domain.KindComment:
		// a lone comment outside a container has nowhere to go
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", HeadComment: "# " + n.Text}, nil

	default:
		y = scalarToYAML(n)
	}

	if n.Kind == domain.KindObject && len(y.Content) == 0 {
		y.Style = yaml.FlowStyle
	}
	y.Anchor = n.Meta.Anchor
	return y, nil
}

func scalarToYAML(n *domain.Node) *yaml.Node {
	y := &yaml.Node{Kind: yaml.ScalarNode}
	switch n.Kind {
	case domain.KindNull:
		y.Tag, y.Value = "!!null", "null"
	case domain.KindBool:
		y.Tag, y.Value = "!!bool", strconv.FormatBool(n.Bool)
	case domain.KindNumber:
		y.Tag, y.Value = "!!int", n.NumberText()
		if n.NumberKind == domain.NumberFloat {
			y.Tag = "!!float"
		}
	case domain.KindString:
		y.Tag, y.Value = "!!str", n.Text
		switch n.Style {
		case domain.StyleLiteral:
			y.Style = yaml.LiteralStyle
		case domain.StyleFolded:
			y.Style = yaml.FoldedStyle
		}
	}
	return y
}

// attachComment places an inline or trailing comment on the previous node,
// or queues it as a head comment for the next one
func attachComment(c *domain.Node, pending []string, lastKey, lastValue *yaml.Node) []string {
	text := "# " + c.Text
	switch {
	case c.Position == domain.CommentInline && lastValue != nil:
		target := lastValue
		if lastValue.Kind != yaml.ScalarNode && lastKey != nil {
			target = lastKey
		}
		target.LineComment = appendLine(target.LineComment, text)
		return pending
	case c.Position == domain.CommentBelow && lastKey != nil:
		lastKey.FootComment = appendLine(lastKey.FootComment, text)
		return pending
	}
	return append(pending, c.Text)
}

func flushComments(container *yaml.Node, pending []string, last *yaml.Node) {
	if len(pending) == 0 {
		return
	}
	if last != nil {
		last.FootComment = appendLine(last.FootComment, joinComments(pending))
		return
	}
	container.HeadComment = joinComments(pending)
}

func joinComments(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "# " + l
	}
	return strings.Join(out, "\n")
}

func appendLine(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}

// encodeJSON writes objects in their stored key order. Aliases are expanded
// to their anchored value and comments are dropped.
func encodeJSON(root *domain.Node, indent int, lines bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if lines {
		docs := []*domain.Node{root}
		if root.Kind == domain.KindMultiDoc {
			docs = root.Items
		}
		for _, doc := range docs {
			v, err := toJSONValue(root, doc, nil)
			if err != nil {
				return nil, err
			}
			if err := enc.Encode(v); err != nil {
				return nil, err
			}
		}
		return buf.Bytes(), nil
	}

	enc.SetIndent("", strings.Repeat(" ", indent))
	v, err := toJSONValue(root, root, nil)
	if err != nil {
		return nil, err
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toJSONValue(root, n *domain.Node, resolving []string) (any, error) {
	switch n.Kind {
	case domain.KindNull:
		return nil, nil
	case domain.KindBool:
		return n.Bool, nil
	case domain.KindNumber:
		if n.NumberKind == domain.NumberInt {
			return n.Int, nil
		}
		if math.IsInf(n.Float, 0) || math.IsNaN(n.Float) {
			return nil, fmt.Errorf("%s cannot be represented in JSON", n.NumberText())
		}
		if text := n.NumberText(); json.Valid([]byte(text)) {
			return json.Number(text), nil
		}
		return n.Float, nil
	case domain.KindString:
		return n.Text, nil
	case domain.KindAlias:
		for _, name := range resolving {
			if name == n.Text {
				return nil, fmt.Errorf("alias *%s refers to itself", n.Text)
			}
		}
		target := domain.ResolveAlias(root, n.Text)
		if target == nil {
			return nil, fmt.Errorf("alias *%s has no anchor", n.Text)
		}
		return toJSONValue(root, target, append(resolving, n.Text))
	case domain.KindObject:
		om := orderedmap.New[string, any]()
		if n.Meta.Anchor != "" {
			resolving = append(resolving, n.Meta.Anchor)
		}
		for _, e := range n.Entries {
			if e.Value.Kind == domain.KindComment {
				continue
			}
			v, err := toJSONValue(root, e.Value, resolving)
			if err != nil {
				return nil, err
			}
			om.Set(e.Key, v)
		}
		return om, nil
	case domain.KindArray, domain.KindMultiDoc:
		if n.Meta.Anchor != "" {
			resolving = append(resolving, n.Meta.Anchor)
		}
		out := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			if item.Kind == domain.KindComment {
				continue
			}
			v, err := toJSONValue(root, item, resolving)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot encode %s as JSON", n.Kind)
}
