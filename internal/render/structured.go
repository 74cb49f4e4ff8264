package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type jsonTable struct {
	rowSet
	w io.Writer
}

func (t *jsonTable) Draw() error {
	out := make([]map[string]string, 0, len(t.rows))
	for _, row := range t.rows {
		obj := make(map[string]string, len(t.columns))
		for i, col := range t.columns {
			obj[col] = row[i]
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(t.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

type yamlTable struct {
	rowSet
	w io.Writer
}

// Draw emits a sequence of mappings keeping the column order.
func (t *yamlTable) Draw() error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range t.columns {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: col},
				&yaml.Node{Kind: yaml.ScalarNode, Value: row[i]},
			)
		}
		seq.Content = append(seq.Content, m)
	}
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(t.w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	return enc.Close()
}

type csvTable struct {
	rowSet
	w io.Writer
}

func (t *csvTable) Draw() error {
	cw := csv.NewWriter(t.w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("render csv header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("render csv rows: %w", err)
	}
	return nil
}
