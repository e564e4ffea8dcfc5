package export

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kregerl/nbt-editor/pkg/tag"
)

func writeYAML(w io.Writer, t *tag.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(t.Root)); err != nil {
		return err
	}
	return enc.Close()
}

func scalarNode(tg, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tg, Value: value}
}

// yamlFloat formats f so that it reads back as a float.
func yamlFloat(v tag.Value) string {
	s := tag.Format(v)
	switch s {
	case "inf":
		return ".inf"
	case "-inf":
		return "-.inf"
	case "nan":
		return ".nan"
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func yamlNode(v tag.Value) *yaml.Node {
	switch v := v.(type) {
	case tag.Byte, tag.Short, tag.Int, tag.Long:
		return scalarNode("!!int", tag.Format(v))
	case tag.Float, tag.Double:
		return scalarNode("!!float", yamlFloat(v))
	case tag.String:
		return scalarNode("!!str", string(v))
	case tag.ByteArray, tag.IntArray, tag.LongArray:
		n, _ := tag.ArrayLen(v)
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for i := 0; i < n; i++ {
			seq.Content = append(seq.Content, scalarNode("!!int", tag.FormatElem(v, i)))
		}
		return seq
	case *tag.List:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v.Items {
			seq.Content = append(seq.Content, yamlNode(item))
		}
		return seq
	case *tag.Compound:
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i := 0; i < v.Len(); i++ {
			name, child := v.At(i)
			m.Content = append(m.Content, scalarNode("!!str", name), yamlNode(child))
		}
		return m
	}
	return scalarNode("!!null", "null")
}
