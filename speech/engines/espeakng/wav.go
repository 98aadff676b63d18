package espeakng

import (
	"encoding/binary"
	"fmt"
)

// wavFormat describes the PCM layout declared in a WAV fmt chunk.
type wavFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// decodeWAV strips the RIFF container from espeak-ng's output and returns
// the raw sample data. espeak-ng writes a zero data-chunk length when
// streaming to a pipe, so the chunk size field cannot be trusted; the data
// chunk is taken to run to the end of the buffer.
func decodeWAV(b []byte) ([]byte, wavFormat, error) {
	var format wavFormat

	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return nil, format, fmt.Errorf("not a RIFF/WAVE stream")
	}

	offset := 12
	for offset+8 <= len(b) {
		id := string(b[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(b[offset+4 : offset+8]))
		body := offset + 8

		switch id {
		case "fmt ":
			if body+16 > len(b) {
				return nil, format, fmt.Errorf("truncated fmt chunk")
			}
			audioFormat := binary.LittleEndian.Uint16(b[body : body+2])
			if audioFormat != 1 {
				return nil, format, fmt.Errorf("unsupported WAV encoding %d", audioFormat)
			}
			format.Channels = int(binary.LittleEndian.Uint16(b[body+2 : body+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(b[body+4 : body+8]))
			format.BitsPerSample = int(binary.LittleEndian.Uint16(b[body+14 : body+16]))

		case "data":
			end := body + size
			if size == 0 || end > len(b) {
				end = len(b)
			}
			pcm := b[body:end]
			if len(pcm)%2 != 0 {
				pcm = pcm[:len(pcm)-1]
			}
			return pcm, format, nil
		}

		if size <= 0 {
			break
		}
		// Chunks are word-aligned.
		offset = body + size + size%2
	}

	return nil, format, fmt.Errorf("no data chunk found")
}
