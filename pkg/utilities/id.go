package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// NewUUID generates a random UUID string, used as the primary key for all
// stored rows.
func NewUUID() string {
	return uuid.NewString()
}

// NewRequestID generates a KSUID string for request correlation.
func NewRequestID() string {
	return ksuid.New().String()
}

var (
	refNodeOnce sync.Once
	refNode     *snowflake.Node
)

// NewReferenceCode generates a short human-quotable snowflake identifier.
// The node ID comes from SNOWFLAKE_NODE (default 1); if node setup fails it
// falls back to a KSUID string so a unique code is always returned.
func NewReferenceCode() string {
	refNodeOnce.Do(func() {
		nodeID := int64(1)
		if env := os.Getenv("SNOWFLAKE_NODE"); env != "" {
			if n, err := strconv.ParseInt(env, 10, 64); err == nil {
				nodeID = n
			}
		}
		// error leaves refNode nil; handled below
		refNode, _ = snowflake.NewNode(nodeID)
	})
	if refNode == nil {
		return ksuid.New().String()
	}
	return refNode.Generate().String()
}
