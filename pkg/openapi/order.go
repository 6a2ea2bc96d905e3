package openapi

import (
	"gopkg.in/yaml.v3"
)

// declarationOrder recovers the key order of components.schemas and of each
// schema's properties. kin-openapi decodes both into maps, so the raw
// document is walked a second time as a yaml.Node tree (JSON parses as
// YAML).
type declarationOrder struct {
	schemas    []string
	properties map[string][]string
}

func readDeclarationOrder(raw []byte) declarationOrder {
	order := declarationOrder{properties: map[string][]string{}}
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return order
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	schemas := lookup(lookup(doc, "components"), "schemas")
	if schemas == nil || schemas.Kind != yaml.MappingNode {
		return order
	}
	for i := 0; i+1 < len(schemas.Content); i += 2 {
		name := schemas.Content[i].Value
		order.schemas = append(order.schemas, name)
		order.properties[name] = propertyKeys(schemas.Content[i+1])
	}
	return order
}

// propertyKeys lists property names of a schema node, including those
// contributed by allOf members, in document order.
func propertyKeys(node *yaml.Node) []string {
	var keys []string
	if props := lookup(node, "properties"); props != nil && props.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(props.Content); i += 2 {
			keys = append(keys, props.Content[i].Value)
		}
	}
	if allOf := lookup(node, "allOf"); allOf != nil && allOf.Kind == yaml.SequenceNode {
		for _, member := range allOf.Content {
			keys = append(keys, propertyKeys(member)...)
		}
	}
	return keys
}

func lookup(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
