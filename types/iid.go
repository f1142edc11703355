package types

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// IID identifies a native interface. The field layout matches nsID, so a
// pointer to an IID can be handed to QueryInterface as is.
type IID struct {
	M0 uint32
	M1 uint16
	M2 uint16
	M3 [8]byte
}

// iidTextLen is the length of the canonical 8-4-4-4-12 form.
const iidTextLen = 36

// ParseIID decodes the canonical dash separated form of an interface ID.
// Malformed input yields the zero IID. A mismatching ID only means
// "not this interface", so there is nothing to report.
func ParseIID(s string) IID {
	if len(s) != iidTextLen || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return IID{}
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return IID{}
	}
	return IIDFromUUID(u)
}

// IIDFromUUID converts the RFC 4122 byte order into the four field layout.
func IIDFromUUID(u uuid.UUID) IID {
	var id IID
	id.M0 = binary.BigEndian.Uint32(u[0:4])
	id.M1 = binary.BigEndian.Uint16(u[4:6])
	id.M2 = binary.BigEndian.Uint16(u[6:8])
	copy(id.M3[:], u[8:16])
	return id
}

// UUID returns the IID in RFC 4122 byte order.
func (id IID) UUID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], id.M0)
	binary.BigEndian.PutUint16(u[4:6], id.M1)
	binary.BigEndian.PutUint16(u[6:8], id.M2)
	copy(u[8:16], id.M3[:])
	return u
}

// String renders the canonical lowercase form.
func (id IID) String() string {
	return id.UUID().String()
}

func (id IID) Equal(other IID) bool {
	return id.M0 == other.M0 && id.M1 == other.M1 && id.M2 == other.M2 && id.M3 == other.M3
}

func (id IID) IsZero() bool {
	return id.Equal(IID{})
}
