package block

import "encoding/binary"

// Metadata is one {offset, first key, last key} record in an SST's block
// index: `u32 offset | u16 first_key_len | first_key | u16
// last_key_len | last_key`, big-endian.
type Metadata struct {
	Offset   uint32
	FirstKey []byte
	LastKey  []byte
}

// Encode serializes the record.
func (m Metadata) Encode() []byte {
	out := make([]byte, 0, 4+2+len(m.FirstKey)+2+len(m.LastKey))
	out = binary.BigEndian.AppendUint32(out, m.Offset)
	out = binary.BigEndian.AppendUint16(out, uint16(len(m.FirstKey)))
	out = append(out, m.FirstKey...)
	out = binary.BigEndian.AppendUint16(out, uint16(len(m.LastKey)))
	out = append(out, m.LastKey...)
	return out
}

// DecodeMetadata decodes one record starting at the front of encoded and
// returns it along with the number of bytes it consumed.
func DecodeMetadata(encoded []byte) (Metadata, int) {
	pos := 0
	offset := binary.BigEndian.Uint32(encoded[pos : pos+4])
	pos += 4
	firstKeyLen := int(binary.BigEndian.Uint16(encoded[pos : pos+2]))
	pos += 2
	firstKey := encoded[pos : pos+firstKeyLen]
	pos += firstKeyLen
	lastKeyLen := int(binary.BigEndian.Uint16(encoded[pos : pos+2]))
	pos += 2
	lastKey := encoded[pos : pos+lastKeyLen]
	pos += lastKeyLen
	return Metadata{Offset: offset, FirstKey: firstKey, LastKey: lastKey}, pos
}

// DecodeMetadataList decodes a concatenated run of records occupying the
// entire byte slice.
func DecodeMetadataList(encoded []byte) []Metadata {
	var out []Metadata
	for len(encoded) > 0 {
		m, n := DecodeMetadata(encoded)
		out = append(out, m)
		encoded = encoded[n:]
	}
	return out
}
