package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// IDNode hands out time-ordered int64 ids (snowflake) for rows whose keys are
// not assigned by the database.
type IDNode struct {
	node *snowflake.Node
}

// NewIDNode creates an id node for the given node number (0..1023).
func NewIDNode(nodeID int64) (*IDNode, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &IDNode{node: node}, nil
}

// NodeIDFromEnv reads SNOWFLAKE_NODE, defaulting to node 1 when it is unset or invalid.
func NodeIDFromEnv() int64 {
	nodeEnv := os.Getenv("SNOWFLAKE_NODE")
	if nodeEnv == "" {
		return 1
	}
	nodeID, err := strconv.ParseInt(nodeEnv, 10, 64)
	if err != nil {
		return 1
	}
	return nodeID
}

// NextID returns the next id from the node. Safe for concurrent use.
func (n *IDNode) NextID() int64 {
	return n.node.Generate().Int64()
}
