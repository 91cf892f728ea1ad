// Package id issues the snowflake ids used for every teamchat row.
package id

import (
	"fmt"
	"hash/fnv"
	"os"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// epoch is 2025-01-01T00:00:00Z. Ids stay small and sort by creation time.
var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// maxNode is the largest id that fits the default 10 node bits.
const maxNode = 1023

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the snowflake node. A zero nodeID is derived from the host
// name so replicas started from the same config get distinct nodes. Only the
// first call has an effect.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		if nodeID == 0 {
			host, _ := os.Hostname()
			nodeID = NodeFromHost(host)
		}
		if nodeID < 0 || nodeID > maxNode {
			err = fmt.Errorf("node id %d out of range [0, %d]", nodeID, maxNode)
			return
		}
		snowflake.Epoch = epoch.UnixMilli()
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// NodeFromHost maps a host name onto a node id in [1, maxNode].
func NodeFromHost(host string) int64 {
	h := fnv.New32a()
	h.Write([]byte(host))
	return int64(h.Sum32()%maxNode) + 1
}

// New returns a time-ordered unique id. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}
