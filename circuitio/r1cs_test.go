package circuitio

import (
	"bytes"
	"encoding/binary"
	"math/big"
	"strings"
	"testing"
)

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func littleEndianField(v int64, fieldSize uint32) []byte {
	be := make([]byte, fieldSize)
	big.NewInt(v).FillBytes(be)
	le := make([]byte, fieldSize)
	for i, c := range be {
		le[fieldSize-1-uint32(i)] = c
	}
	return le
}

// buildR1CS assembles a minimal, well-formed R1CS v1 binary blob for one
// constraint wire1*wire2 - wire3 = 0 over 4 wires (constant, output,
// input, private), with a 4-byte field size.
func buildR1CS(t *testing.T) []byte {
	t.Helper()
	const fieldSize = uint32(4)

	var header bytes.Buffer
	putU32(&header, fieldSize)
	header.Write(littleEndianField(0, fieldSize)) // prime bytes: not validated by the reader
	putU32(&header, 4) // total wires
	putU32(&header, 1) // public outputs
	putU32(&header, 1) // public inputs
	putU32(&header, 1) // private inputs
	putU64(&header, 0) // num labels
	putU32(&header, 1) // constraint count

	var constraints bytes.Buffer
	writeLC := func(wire uint32, coef int64) {
		putU32(&constraints, 1)
		putU32(&constraints, wire)
		constraints.Write(littleEndianField(coef, fieldSize))
	}
	writeLC(1, 1) // A: wire1
	writeLC(2, 1) // B: wire2
	writeLC(3, 1) // C: wire3

	var out bytes.Buffer
	out.WriteString("r1cs")
	putU32(&out, 1) // version
	putU32(&out, 2) // section count

	putU32(&out, 1) // sectionHeader
	putU64(&out, uint64(header.Len()))
	out.Write(header.Bytes())

	putU32(&out, 2) // sectionConstraints
	putU64(&out, uint64(constraints.Len()))
	out.Write(constraints.Bytes())

	return out.Bytes()
}

func TestReadR1CSMinimal(t *testing.T) {
	blob := buildR1CS(t)
	f, err := ReadR1CS(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("ReadR1CS: %v", err)
	}
	if f.Header.TotalWires != 4 {
		t.Errorf("TotalWires = %d, want 4", f.Header.TotalWires)
	}
	if len(f.Store.GetIDs()) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(f.Store.GetIDs()))
	}
	if got := f.OutputSignals(); len(got) != 1 || !got[1] {
		t.Errorf("OutputSignals() = %+v, want {1: true}", got)
	}
	if got := f.InputSignals(); len(got) != 2 || !got[2] || !got[3] {
		t.Errorf("InputSignals() = %+v, want {2: true, 3: true}", got)
	}
}

func TestReadR1CSMissingConstraintsSection(t *testing.T) {
	var out bytes.Buffer
	out.WriteString("r1cs")
	putU32(&out, 1)
	putU32(&out, 1)

	var header bytes.Buffer
	putU32(&header, 4)
	header.Write(make([]byte, 4))
	putU32(&header, 1)
	putU32(&header, 0)
	putU32(&header, 0)
	putU32(&header, 0)
	putU64(&header, 0)
	putU32(&header, 0)

	putU32(&out, 1)
	putU64(&out, uint64(header.Len()))
	out.Write(header.Bytes())

	_, err := ReadR1CS(bytes.NewReader(out.Bytes()))
	if err == nil || !strings.Contains(err.Error(), "missing constraints section") {
		t.Fatalf("expected a missing-constraints-section error, got %v", err)
	}
}

func TestReadR1CSBadMagic(t *testing.T) {
	_, err := ReadR1CS(bytes.NewReader([]byte("notr1cs...")))
	if err == nil {
		t.Fatalf("expected an error for a bad magic header")
	}
}
