package espeakng

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildWAV assembles a minimal RIFF container around pcm.
func buildWAV(t *testing.T, sampleRate int, channels int, dataLen uint32, pcm []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(16))

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, dataLen)
	b.Write(pcm)
	return b.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}

	got, format, err := decodeWAV(buildWAV(t, 22050, 1, uint32(len(pcm)), pcm))
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Errorf("pcm = %v, want %v", got, pcm)
	}
	if format.SampleRate != 22050 || format.Channels != 1 || format.BitsPerSample != 16 {
		t.Errorf("format = %+v", format)
	}
}

func TestDecodeWAVStreamedLength(t *testing.T) {
	// espeak-ng writes a zero data length when piping; the decoder must
	// take the data to the end of the stream.
	pcm := []byte{9, 0, 8, 0}
	got, _, err := decodeWAV(buildWAV(t, 22050, 1, 0, pcm))
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Errorf("pcm = %v, want %v", got, pcm)
	}
}

func TestDecodeWAVOddDataTruncated(t *testing.T) {
	pcm := []byte{1, 0, 2}
	got, _, err := decodeWAV(buildWAV(t, 22050, 1, 0, pcm))
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if len(got)%2 != 0 {
		t.Errorf("pcm length %d is not sample aligned", len(got))
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	for _, b := range [][]byte{
		nil,
		[]byte("not audio at all"),
		[]byte("RIFFxxxxWAVE"), // headers but no chunks
	} {
		if _, _, err := decodeWAV(b); err == nil {
			t.Errorf("decodeWAV(%q) succeeded, want error", b)
		}
	}
}

func TestDecodeWAVRejectsCompressed(t *testing.T) {
	wav := buildWAV(t, 22050, 1, 4, []byte{1, 0, 2, 0})
	// Flip the format code to something non-PCM.
	wav[20] = 85
	if _, _, err := decodeWAV(wav); err == nil {
		t.Error("decodeWAV accepted a non-PCM format")
	}
}
