package rpc

// Empty is the zero-field message used for RPCs with no meaningful
// argument or no meaningful return value.
type Empty struct{}

// NodeMsg is the wire form of a domain.Node: an opaque (id, address)
// pair the receiver turns back into a callable remote handle.
type NodeMsg struct {
	ID   []byte
	Addr string
}

// NodeReply carries an optional node handle (Found=false means "none",
// e.g. an unknown predecessor).
type NodeReply struct {
	Found bool
	Node  NodeMsg
}

// NodeListReply carries an ordered list of node handles, e.g. a
// successor list.
type NodeListReply struct {
	Nodes []NodeMsg
}

// FindSuccessorRequest asks the receiver to resolve the successor of ID.
type FindSuccessorRequest struct {
	ID []byte
}

// IDRequest carries a single ring identifier, used by Get/Delete/
// RemoveBackup.
type IDRequest struct {
	ID []byte
}

// PutRequest carries a key/value pair, used by Put/PutBackup.
type PutRequest struct {
	ID    []byte
	Value string
}

// ValueReply carries an optional stored value (Found=false means the key
// is absent).
type ValueReply struct {
	Found bool
	Value string
}

// NodeKeyReply carries a node's own identifier.
type NodeKeyReply struct {
	ID []byte
}

// HashLengthReply carries a node's configured identifier bit width (m).
type HashLengthReply struct {
	M int32
}
