package types

import (
	"fmt"
	"strings"
)

// NodeTypeInfo describes one node label and the properties observed on it.
type NodeTypeInfo struct {
	Label      string   `json:"label"`
	Properties []string `json:"properties"`
}

// RelPattern is one observed relationship pattern, e.g.
// (Article)-[:HAS_CHUNK]->(Content).
type RelPattern struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
	Target       string `json:"target"`
}

// Schema is a point-in-time description of the live graph, used as grounding
// for natural-language to Cypher translation. It is an explicit, cacheable
// structure rather than an ad hoc string.
type Schema struct {
	NodeTypes []NodeTypeInfo `json:"node_types"`
	Patterns  []RelPattern   `json:"patterns"`
}

// Text renders the schema in the prompt format the Cypher strategy expects.
func (s *Schema) Text() string {
	var b strings.Builder
	b.WriteString("=== Graph Schema ===\n")
	b.WriteString("\nNode types:\n")
	for _, n := range s.NodeTypes {
		fmt.Fprintf(&b, "- %s: [%s]\n", n.Label, strings.Join(n.Properties, ", "))
	}
	b.WriteString("\nRelationship patterns:\n")
	for _, p := range s.Patterns {
		fmt.Fprintf(&b, "- (%s)-[:%s]->(%s)\n", p.Source, p.Relationship, p.Target)
	}
	return b.String()
}
