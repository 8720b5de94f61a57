package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainNode     = "axtree/node/v1"
	DomainUpdate   = "axtree/update/v1"
	DomainSnapshot = "axtree/snapshot/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// NodeDigest returns the content digest of a node.
// Equal nodes (see Node.Equal) have equal digests.
func NodeDigest(n *Node) (string, error) {
	canonical, err := MarshalCanonical(n)
	if err != nil {
		return "", fmt.Errorf("NodeDigest: %w", err)
	}
	return hashWithDomain(DomainNode, canonical), nil
}

// UpdateDigest returns the content digest of an update. Node order counts.
func UpdateDigest(u *TreeUpdate) (string, error) {
	canonical, err := MarshalCanonical(u)
	if err != nil {
		return "", fmt.Errorf("UpdateDigest: %w", err)
	}
	return hashWithDomain(DomainUpdate, canonical), nil
}

// SnapshotDigest returns the digest of a whole tree state. The node list may
// be in any order; it is sorted by id first.
func SnapshotDigest(rootID NodeID, tree Tree, nodes []*Node) (string, error) {
	sorted := make([]*Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	snapshot := struct {
		RootID NodeID  `json:"root_id"`
		Tree   Tree    `json:"tree"`
		Nodes  []*Node `json:"nodes"`
	}{rootID, tree, sorted}

	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("SnapshotDigest: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustNodeDigest is like NodeDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNodeDigest(n *Node) string {
	d, err := NodeDigest(n)
	if err != nil {
		panic(err)
	}
	return d
}
