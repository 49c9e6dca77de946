// Package codegen issues process definition codes.
package codegen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

// Generator issues time-ordered, node-unique 64-bit codes.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator returns a Generator for nodeID, which must be unique among
// running registry instances.
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create code node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// NextCode returns a fresh code. Safe for concurrent use.
func (g *Generator) NextCode() definition.Code {
	return definition.Code(g.node.Generate().Int64())
}
