package ast

// NodeID is a stable handle of a node inside a Graph. It survives removal of
// other nodes; removed handles are never reused.
type NodeID uint32

// NoNodeID marks "no node", e.g. the parent of a root.
const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
