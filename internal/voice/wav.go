package voice

import (
	"bytes"
	"encoding/binary"
)

const silenceSampleRate = 16000

// SilentWAV returns ms milliseconds of 16-bit mono PCM silence at 16 kHz.
func SilentWAV(ms int) []byte {
	numSamples := silenceSampleRate * ms / 1000
	dataSize := uint32(numSamples * 2)

	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))                  // PCM chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))                   // PCM format
	binary.Write(&buf, binary.LittleEndian, uint16(1))                   // mono
	binary.Write(&buf, binary.LittleEndian, uint32(silenceSampleRate))   // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(silenceSampleRate*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))                   // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))                  // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, dataSize))

	return buf.Bytes()
}
