package transport

import (
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Meshtastic stream API constants.
const (
	frameStart1     = 0x94
	frameStart2     = 0xC3
	frameHeaderLen  = 4
	maxFrameBodyLen = 512

	// MaxPayloadBytes is the largest Data.payload a device accepts (DATA_PAYLOAD_LEN).
	MaxPayloadBytes = 233

	broadcastAddr   = 0xFFFFFFFF
	portTextMessage = 1 // PortNum.TEXT_MESSAGE_APP
	defaultHopLimit = 3
	wakeSequenceLen = 32
)

// Field numbers from mesh.proto.
const (
	toRadioPacket     protowire.Number = 1
	toRadioDisconnect protowire.Number = 4

	meshPacketTo       protowire.Number = 2
	meshPacketChannel  protowire.Number = 3
	meshPacketDecoded  protowire.Number = 4
	meshPacketID       protowire.Number = 6
	meshPacketHopLimit protowire.Number = 9
	meshPacketWantAck  protowire.Number = 10

	dataPortNum protowire.Number = 1
	dataPayload protowire.Number = 2
)

// textPacket is an outbound broadcast text message.
type textPacket struct {
	ID       uint32
	Channel  uint32
	HopLimit uint32
	WantAck  bool
	Text     []byte
}

// encodeToRadio serializes ToRadio{packet: MeshPacket{decoded: Data{TEXT_MESSAGE_APP, text}}}.
func encodeToRadio(p textPacket) []byte {
	var data []byte
	data = protowire.AppendTag(data, dataPortNum, protowire.VarintType)
	data = protowire.AppendVarint(data, portTextMessage)
	data = protowire.AppendTag(data, dataPayload, protowire.BytesType)
	data = protowire.AppendBytes(data, p.Text)

	var pkt []byte
	pkt = protowire.AppendTag(pkt, meshPacketTo, protowire.Fixed32Type)
	pkt = protowire.AppendFixed32(pkt, broadcastAddr)
	if p.Channel != 0 {
		pkt = protowire.AppendTag(pkt, meshPacketChannel, protowire.VarintType)
		pkt = protowire.AppendVarint(pkt, uint64(p.Channel))
	}
	pkt = protowire.AppendTag(pkt, meshPacketDecoded, protowire.BytesType)
	pkt = protowire.AppendBytes(pkt, data)
	pkt = protowire.AppendTag(pkt, meshPacketID, protowire.Fixed32Type)
	pkt = protowire.AppendFixed32(pkt, p.ID)
	if p.HopLimit != 0 {
		pkt = protowire.AppendTag(pkt, meshPacketHopLimit, protowire.VarintType)
		pkt = protowire.AppendVarint(pkt, uint64(p.HopLimit))
	}
	if p.WantAck {
		pkt = protowire.AppendTag(pkt, meshPacketWantAck, protowire.VarintType)
		pkt = protowire.AppendVarint(pkt, protowire.EncodeBool(true))
	}

	var out []byte
	out = protowire.AppendTag(out, toRadioPacket, protowire.BytesType)
	out = protowire.AppendBytes(out, pkt)
	return out
}

// encodeDisconnect serializes ToRadio{disconnect: true}.
func encodeDisconnect() []byte {
	var out []byte
	out = protowire.AppendTag(out, toRadioDisconnect, protowire.VarintType)
	return protowire.AppendVarint(out, protowire.EncodeBool(true))
}

// frame prefixes body with the stream header: START1 START2 LEN_MSB LEN_LSB.
func frame(body []byte) ([]byte, error) {
	if len(body) > maxFrameBodyLen {
		return nil, fmt.Errorf("frame body is %d bytes, limit is %d", len(body), maxFrameBodyLen)
	}
	out := make([]byte, frameHeaderLen, frameHeaderLen+len(body))
	out[0] = frameStart1
	out[1] = frameStart2
	binary.BigEndian.PutUint16(out[2:], uint16(len(body)))
	return append(out, body...), nil
}

// wakeSequence is written after connecting so a sleeping device resyncs its parser.
func wakeSequence() []byte {
	b := make([]byte, wakeSequenceLen)
	for i := range b {
		b[i] = frameStart2
	}
	return b
}
