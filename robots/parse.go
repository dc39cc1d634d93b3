package robots

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a rules file.  An empty document is an empty Configuration,
// which compiles to DefaultRule for every environment.
func Parse(data []byte) (*Configuration, error) {
	cfg := &Configuration{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("can't parse rules: %w", err)
	}
	return cfg, nil
}

// UnmarshalYAML keeps user agents in the order they were written.
//
// Each agent accepts three forms:
//
//	"*": { disallow: ["/a"], allow: ["/b"] }
//	"*": ["/a"]          # disallow list
//	"*":                 # no directives
//
// Aliases work anywhere.  A merge key (<<: *common) splices the agents of
// the merged mapping in at that point; an agent written out in the mapping
// itself wins over a merged one of the same name.
func (a *Agents) UnmarshalYAML(value *yaml.Node) error {
	agents, err := decodeAgents(value)
	if err != nil {
		return err
	}
	*a = agents
	return nil
}

func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func decodeAgents(value *yaml.Node) (Agents, error) {
	value = deref(value)
	if value.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: paths must be a mapping of user agent to directives", value.Line)
	}

	// Explicit keys are collected first so merged agents can yield to them.
	explicit := map[string]bool{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		if keyNode.ShortTag() == "!!merge" {
			continue
		}
		var name string
		if err := keyNode.Decode(&name); err != nil {
			return nil, fmt.Errorf("line %d: user agent name: %w", keyNode.Line, err)
		}
		if explicit[name] {
			return nil, fmt.Errorf("line %d: user agent %q already defined", keyNode.Line, name)
		}
		explicit[name] = true
	}

	agents := make(Agents, 0, len(value.Content)/2)
	seen := map[string]bool{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valueNode := value.Content[i], value.Content[i+1]

		if keyNode.ShortTag() == "!!merge" {
			merged, err := decodeMerge(valueNode)
			if err != nil {
				return nil, err
			}
			for _, agent := range merged {
				if explicit[agent.Name] || seen[agent.Name] {
					continue
				}
				seen[agent.Name] = true
				agents = append(agents, agent)
			}
			continue
		}

		var name string
		if err := keyNode.Decode(&name); err != nil {
			return nil, fmt.Errorf("line %d: user agent name: %w", keyNode.Line, err)
		}

		directives, err := decodeDirectives(valueNode)
		if err != nil {
			return nil, fmt.Errorf("user agent %q: %w", name, err)
		}

		seen[name] = true
		agents = append(agents, Agent{Name: name, Directives: directives})
	}

	return agents, nil
}

// decodeMerge handles both "<<: *one" and "<<: [*one, *two]".  Earlier
// mappings in a list win over later ones, as in YAML merge keys.
func decodeMerge(node *yaml.Node) (Agents, error) {
	node = deref(node)
	switch node.Kind {
	case yaml.MappingNode:
		return decodeAgents(node)
	case yaml.SequenceNode:
		merged := Agents{}
		seen := map[string]bool{}
		for _, item := range node.Content {
			item = deref(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: merge list must hold mappings of user agents", item.Line)
			}
			agents, err := decodeAgents(item)
			if err != nil {
				return nil, err
			}
			for _, agent := range agents {
				if !seen[agent.Name] {
					seen[agent.Name] = true
					merged = append(merged, agent)
				}
			}
		}
		return merged, nil
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping of user agents", node.Line)
	}
}

func decodeDirectives(node *yaml.Node) (DirectiveSet, error) {
	node = deref(node)
	ds := DirectiveSet{}
	switch {
	case node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null":
		return ds, nil
	case node.Kind == yaml.SequenceNode:
		if err := node.Decode(&ds.Disallow); err != nil {
			return ds, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return ds, nil
	case node.Kind == yaml.MappingNode:
		if err := node.Decode(&ds); err != nil {
			return ds, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return ds, nil
	default:
		return ds, fmt.Errorf("line %d: directives must be a mapping or a list", node.Line)
	}
}
