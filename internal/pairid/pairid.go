package pairid

import (
	"github.com/google/uuid"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
)

// namespace scopes pair IDs so they cannot collide with IDs minted elsewhere.
var namespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("hisaabflow/transfer-pair"))

// New derives a stable pair ID from the two participating transaction
// identities. Name-based (v5-style) UUIDs keep detection runs deterministic:
// the same input pool always mints the same IDs.
func New(outgoing, incoming model.TxID) string {
	key := outgoing.String() + "|" + incoming.String()
	return uuid.NewSHA1(namespace, []byte(key)).String()
}
