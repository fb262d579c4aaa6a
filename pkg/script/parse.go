// Package script parses textual duplication programs into the structured
// form the engine consumes. The format is a YAML sequence of instruction
// nodes:
//
//	- emit: START
//	- duplicate
//	- if_child:
//	    - duplicate
//	    - create_thread: worker
//	    - join_thread: worker
//	- duplicate
//	- emit: FINAL
package script

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	forksim "github.com/forklab/forksim"
)

// Parse decodes a YAML program and validates it structurally. The returned
// program is ready for the engine; errors carry the offending instruction
// index when validation fails.
func Parse(data []byte) (*forksim.Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("program is not valid YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// An empty document is the empty program.
		return &forksim.Program{}, nil
	}

	root := doc.Content[0]
	instrs, err := parseSequence(root)
	if err != nil {
		return nil, err
	}

	prog := &forksim.Program{Instructions: instrs}
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

func parseSequence(node *yaml.Node) ([]forksim.Instruction, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence of instructions", node.Line)
	}
	instrs := make([]forksim.Instruction, 0, len(node.Content))
	for _, item := range node.Content {
		in, err := parseInstruction(item)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, in)
	}
	return instrs, nil
}

func parseInstruction(node *yaml.Node) (forksim.Instruction, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if strings.TrimSpace(node.Value) == "duplicate" {
			return forksim.Instruction{Kind: forksim.KindDuplicate}, nil
		}
		return forksim.Instruction{}, fmt.Errorf("line %d: unknown instruction %q", node.Line, node.Value)

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return forksim.Instruction{}, fmt.Errorf("line %d: instruction must have exactly one key", node.Line)
		}
		keyNode := node.Content[0]
		valueNode := node.Content[1]
		switch keyNode.Value {
		case "if_child":
			body, err := parseSequence(valueNode)
			if err != nil {
				return forksim.Instruction{}, err
			}
			return forksim.Instruction{Kind: forksim.KindIfChild, Body: body}, nil
		case "create_thread":
			name, err := scalarValue(valueNode, "create_thread")
			if err != nil {
				return forksim.Instruction{}, err
			}
			return forksim.Instruction{Kind: forksim.KindCreateThread, Thread: name}, nil
		case "join_thread":
			name, err := scalarValue(valueNode, "join_thread")
			if err != nil {
				return forksim.Instruction{}, err
			}
			return forksim.Instruction{Kind: forksim.KindJoinThread, Thread: name}, nil
		case "emit":
			label, err := scalarValue(valueNode, "emit")
			if err != nil {
				return forksim.Instruction{}, err
			}
			return forksim.Instruction{Kind: forksim.KindEmit, Label: label}, nil
		default:
			return forksim.Instruction{}, fmt.Errorf("line %d: unknown instruction %q", keyNode.Line, keyNode.Value)
		}

	default:
		return forksim.Instruction{}, fmt.Errorf("line %d: instruction must be a scalar or a single-key mapping", node.Line)
	}
}

func scalarValue(node *yaml.Node, key string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: %s value must be a string", node.Line, key)
	}
	return strings.TrimSpace(node.Value), nil
}
