package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

// codec reads and writes the primary roster file. decode keeps every valid
// entry and reports the invalid ones in skipped; err is for unreadable files.
type codec interface {
	decode(b []byte) (r *domain.Roster, skipped []error, err error)
	encode(r *domain.Roster) ([]byte, error)
}

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return jsonCodec{}
	}
}

// jsonCodec keeps the object key order, which encoding/json maps do not.
type jsonCodec struct{}

func (jsonCodec) decode(b []byte) (*domain.Roster, []error, error) {
	r := domain.NewRoster()
	if len(bytes.TrimSpace(b)) == 0 {
		return r, nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("roster: expected a JSON object")
	}
	var skipped []error
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		name, _ := kt.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("roster: entry %q: %w", name, err)
		}
		var date string
		if err := json.Unmarshal(raw, &date); err != nil {
			skipped = append(skipped, fmt.Errorf("entry %q: %w: %s", name, domain.ErrInvalidDate, raw))
			continue
		}
		if _, err := r.Set(name, date); err != nil {
			skipped = append(skipped, fmt.Errorf("entry %q: %w", name, err))
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return r, skipped, nil
}

func (jsonCodec) encode(r *domain.Roster) ([]byte, error) {
	entries := r.Entries()
	if len(entries) == 0 {
		return []byte("{}\n"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		if err := writeJSONString(&buf, e.Name); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := writeJSONString(&buf, e.Date()); err != nil {
			return nil, err
		}
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// yamlCodec works on yaml.Node so that mapping order survives a round trip.
type yamlCodec struct{}

func (yamlCodec) decode(b []byte) (*domain.Roster, []error, error) {
	r := domain.NewRoster()
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, nil, err
	}
	if len(doc.Content) == 0 {
		return r, nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("roster: expected a YAML mapping at line %d", m.Line)
	}
	var skipped []error
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if _, err := r.Set(k.Value, v.Value); err != nil {
			skipped = append(skipped, fmt.Errorf("line %d: %w", k.Line, err))
		}
	}
	return r, skipped, nil
}

func (yamlCodec) encode(r *domain.Roster) ([]byte, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range r.Entries() {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			// Quoted so that 05.03 is never read back as a float.
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Date(), Style: yaml.DoubleQuotedStyle},
		)
	}
	if len(m.Content) == 0 {
		return []byte("{}\n"), nil
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{m}}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
