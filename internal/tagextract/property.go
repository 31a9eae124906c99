package tagextract

import (
	"encoding/binary"
	"fmt"

	"github.com/sonora-music/sonora/internal/audioformat"
)

// ExtractProperty reads the audio property block directly from the
// container's own headers rather than the tag frames. FLAC and WAV
// headers are fixed-layout and parsed in full; every other format (MP3,
// M4A, Ogg, Opus, ...) yields a zero Property with no duration, bitrate
// or sample geometry.
func ExtractProperty(format audioformat.Format, data []byte) (Property, error) {
	switch format {
	case audioformat.FLAC:
		return extractFLACProperty(data)
	case audioformat.WAV:
		return extractWAVProperty(data)
	default:
		return Property{}, nil
	}
}

// extractFLACProperty walks the FLAC metadata block chain to the
// STREAMINFO block (always block type 0) and decodes sample rate, bit
// depth, channel count and duration from its fixed 34-byte payload.
func extractFLACProperty(data []byte) (Property, error) {
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		return Property{}, fmt.Errorf("not a flac stream")
	}
	offset := 4
	for offset+4 <= len(data) {
		header := data[offset]
		last := header&0x80 != 0
		blockType := header & 0x7f
		length := int(data[offset+1])<<16 | int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4
		if blockType == 0 {
			if offset+34 > len(data) {
				return Property{}, fmt.Errorf("truncated STREAMINFO block")
			}
			info := data[offset : offset+34]
			sampleRateAndChannels := uint64(info[10])<<16 | uint64(info[11])<<8 | uint64(info[12])
			sampleRate := int(sampleRateAndChannels >> 4)
			channels := int((sampleRateAndChannels>>1)&0x7) + 1
			bitDepth := int(((uint64(info[12])&0x1)<<4)|(uint64(info[13])>>4)) + 1
			totalSamples := (uint64(info[13]&0xf) << 32) | uint64(binary.BigEndian.Uint32(info[14:18]))
			var duration float32
			if sampleRate > 0 {
				duration = float32(totalSamples) / float32(sampleRate)
			}
			prop := Property{
				DurationSeconds: duration,
				SampleRate:      sampleRate,
				ChannelCount:    channels,
				BitDepth:        &bitDepth,
			}
			if duration > 0 {
				prop.Bitrate = int(float32(len(data)) * 8 / duration / 1000)
			}
			return prop, nil
		}
		offset += length
		if last {
			break
		}
	}
	return Property{}, fmt.Errorf("STREAMINFO block not found")
}

// extractWAVProperty decodes the canonical PCM "fmt " chunk of a RIFF/WAVE
// container.
func extractWAVProperty(data []byte) (Property, error) {
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Property{}, fmt.Errorf("not a wav stream")
	}
	offset := 12
	var prop Property
	var dataSize int
	found := false
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return Property{}, fmt.Errorf("truncated fmt chunk")
			}
			chunk := data[body : body+size]
			channels := int(binary.LittleEndian.Uint16(chunk[2:4]))
			sampleRate := int(binary.LittleEndian.Uint32(chunk[4:8]))
			bitsPerSample := int(binary.LittleEndian.Uint16(chunk[14:16]))
			prop.ChannelCount = channels
			prop.SampleRate = sampleRate
			prop.BitDepth = &bitsPerSample
			found = true
		case "data":
			dataSize = size
		}
		offset = body + size
		if size%2 == 1 {
			offset++
		}
	}
	if !found {
		return Property{}, fmt.Errorf("fmt chunk not found")
	}
	if prop.SampleRate > 0 && prop.ChannelCount > 0 && prop.BitDepth != nil {
		bytesPerSec := prop.SampleRate * prop.ChannelCount * (*prop.BitDepth) / 8
		if bytesPerSec > 0 {
			prop.DurationSeconds = float32(dataSize) / float32(bytesPerSec)
			prop.Bitrate = bytesPerSec * 8 / 1000
		}
	}
	return prop, nil
}
