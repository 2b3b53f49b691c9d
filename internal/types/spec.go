package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultSeedCount is used when a seed table omits count.
const DefaultSeedCount = 10

// ColumnGenerator binds a column to a named value generator.
type ColumnGenerator struct {
	Column    string
	Generator string
}

// Relation marks Column as a foreign key to the primary key of Table.
type Relation struct {
	Column string
	Table  string
}

type TableSeedConfig struct {
	Name      string
	Count     int
	Columns   []ColumnGenerator
	Relations []Relation
}

// SeedSpec keeps tables in the order they were declared.
type SeedSpec struct {
	Tables []TableSeedConfig
}

func (s SeedSpec) Lookup(name string) (TableSeedConfig, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSeedConfig{}, false
}

func (s SeedSpec) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

type TableAnonymizeConfig struct {
	Name    string
	Columns []ColumnGenerator
}

// AnonymizeSpec keeps tables in the order they were declared.
type AnonymizeSpec struct {
	Tables []TableAnonymizeConfig
}

func (s AnonymizeSpec) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

func (s *SeedSpec) UnmarshalYAML(node *yaml.Node) error {
	entries, err := mappingEntries(node, "seed")
	if err != nil {
		return err
	}

	s.Tables = make([]TableSeedConfig, 0, len(entries))
	for _, e := range entries {
		var raw struct {
			Count     *int      `yaml:"count"`
			Columns   yaml.Node `yaml:"columns"`
			Relations yaml.Node `yaml:"relations"`
		}
		if err := e.value.Decode(&raw); err != nil {
			return fmt.Errorf("seed table %s: %w", e.key, err)
		}

		table := TableSeedConfig{Name: e.key, Count: DefaultSeedCount}
		if raw.Count != nil {
			if *raw.Count < 0 {
				return fmt.Errorf("seed table %s: count must not be negative, got %d", e.key, *raw.Count)
			}
			table.Count = *raw.Count
		}

		if table.Columns, err = decodeColumns(&raw.Columns, "seed table "+e.key); err != nil {
			return err
		}
		if table.Relations, err = decodeRelations(&raw.Relations, e.key); err != nil {
			return err
		}
		s.Tables = append(s.Tables, table)
	}
	return nil
}

func (s *AnonymizeSpec) UnmarshalYAML(node *yaml.Node) error {
	entries, err := mappingEntries(node, "anonymize")
	if err != nil {
		return err
	}

	s.Tables = make([]TableAnonymizeConfig, 0, len(entries))
	for _, e := range entries {
		var raw struct {
			Columns yaml.Node `yaml:"columns"`
		}
		if err := e.value.Decode(&raw); err != nil {
			return fmt.Errorf("anonymize table %s: %w", e.key, err)
		}
		columns, err := decodeColumns(&raw.Columns, "anonymize table "+e.key)
		if err != nil {
			return err
		}
		s.Tables = append(s.Tables, TableAnonymizeConfig{Name: e.key, Columns: columns})
	}
	return nil
}

type mappingEntry struct {
	key   string
	value *yaml.Node
}

// mappingEntries walks a mapping node in document order. An empty or null
// node yields no entries.
func mappingEntries(node *yaml.Node, what string) ([]mappingEntry, error) {
	if node == nil || node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: expected a mapping at line %d", what, node.Line)
	}

	entries := make([]mappingEntry, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || k.Value == "" {
			return nil, fmt.Errorf("%s: invalid key at line %d", what, k.Line)
		}
		if _, dup := seen[k.Value]; dup {
			return nil, fmt.Errorf("%s: duplicate key %q at line %d", what, k.Value, k.Line)
		}
		seen[k.Value] = struct{}{}
		entries = append(entries, mappingEntry{key: k.Value, value: v})
	}
	return entries, nil
}

func decodeColumns(node *yaml.Node, what string) ([]ColumnGenerator, error) {
	entries, err := mappingEntries(node, what+" columns")
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnGenerator, 0, len(entries))
	for _, e := range entries {
		if e.value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%s: generator for column %s must be a string", what, e.key)
		}
		columns = append(columns, ColumnGenerator{Column: e.key, Generator: e.value.Value})
	}
	return columns, nil
}

func decodeRelations(node *yaml.Node, table string) ([]Relation, error) {
	entries, err := mappingEntries(node, "seed table "+table+" relations")
	if err != nil {
		return nil, err
	}

	relations := make([]Relation, 0, len(entries))
	for _, e := range entries {
		var ref struct {
			Table string `yaml:"table"`
		}
		if err := e.value.Decode(&ref); err != nil {
			return nil, fmt.Errorf("seed table %s relation %s: %w", table, e.key, err)
		}
		if ref.Table == "" {
			return nil, fmt.Errorf("seed table %s relation %s: missing table", table, e.key)
		}
		relations = append(relations, Relation{Column: e.key, Table: ref.Table})
	}
	return relations, nil
}
