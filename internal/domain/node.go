package domain

// Node represents a participant in the DHT ring: its identifier and the
// network address other peers use to reach it.
type Node struct {
	ID   ID
	Addr string
}

// Equal reports whether two node handles denote the same peer identity.
func (n Node) Equal(other Node) bool {
	return n.ID.Equal(other.ID) && n.Addr == other.Addr
}
