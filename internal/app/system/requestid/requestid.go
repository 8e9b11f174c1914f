// internal/app/system/requestid/requestid.go
package requestid

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// New derives an opaque oracle request identifier from the request's subject
// plus a random nonce: keccak256(groupID || member || index || uuid), hex
// encoded with a 0x prefix. Collisions across retries for the same subject
// are impossible because of the nonce.
func New(groupID uint64, member string, milestoneIndex uint32) string {
	h := sha3.NewLegacyKeccak256()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], groupID)
	h.Write(buf[:])
	h.Write([]byte(member))
	binary.BigEndian.PutUint32(buf[:4], milestoneIndex)
	h.Write(buf[:4])
	nonce := uuid.New()
	h.Write(nonce[:])

	return "0x" + hex.EncodeToString(h.Sum(nil))
}
