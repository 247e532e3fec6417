package circuitio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

// Section type tags of the standard R1CS v1 binary format (spec.md
// section 6): header, constraints, and the wire-to-label map. ReadR1CS
// scans every section present by its type tag and requires the header and
// constraints sections, tolerating the label map being absent. The
// constraints and label-map sections are decoded with sizes taken from the
// header, so the header section must come before both of them; a file in
// which either precedes the header is rejected. Other sections may appear
// anywhere.
const (
	sectionHeader      = uint32(1)
	sectionConstraints = uint32(2)
	sectionWire2Label  = uint32(3)
)

var r1csMagic = [4]byte{'r', '1', 'c', 's'}

// R1CSHeader mirrors the fixed-width header section.
type R1CSHeader struct {
	FieldSize       uint32
	Prime           *big.Int
	TotalWires      uint32
	PublicOutputs   uint32
	PublicInputs    uint32
	PrivateInputs   uint32
	NumLabels       uint64
	ConstraintCount uint32
}

// R1CSFile is the fully decoded contents of an R1CS binary file.
type R1CSFile struct {
	Version     uint32
	Header      R1CSHeader
	Store       *conststore.Store
	WireToLabel []uint64 // nil if the file carried no label-map section
}

// ReadR1CS decodes a standard R1CS v1 binary file per spec.md section 6.
// Required sections: header (type 1), constraints (type 2). The label map
// (type 3) is optional; missing sections required by this decoder (header,
// constraints) surface a MalformedInput-class error.
func ReadR1CS(r io.Reader) (*R1CSFile, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("circuitio: read r1cs magic: %w", err)
	}
	if magic != r1csMagic {
		return nil, fmt.Errorf("circuitio: not an r1cs file (bad magic %q)", magic)
	}

	version, err := readU32(br)
	if err != nil {
		return nil, fmt.Errorf("circuitio: read r1cs version: %w", err)
	}
	numSections, err := readU32(br)
	if err != nil {
		return nil, fmt.Errorf("circuitio: read r1cs section count: %w", err)
	}

	out := &R1CSFile{Version: version}
	haveHeader, haveConstraints := false, false

	for i := uint32(0); i < numSections; i++ {
		secType, err := readU32(br)
		if err != nil {
			return nil, fmt.Errorf("circuitio: section %d type: %w", i, err)
		}
		secSize, err := readU64(br)
		if err != nil {
			return nil, fmt.Errorf("circuitio: section %d size: %w", i, err)
		}
		body := io.LimitReader(br, int64(secSize))
		bbr := bufio.NewReader(body)

		switch secType {
		case sectionHeader:
			h, err := readHeader(bbr)
			if err != nil {
				return nil, fmt.Errorf("circuitio: header section: %w", err)
			}
			out.Header = h
			haveHeader = true
		case sectionConstraints:
			if !haveHeader {
				return nil, fmt.Errorf("circuitio: constraints section appeared before header section")
			}
			store, err := readConstraints(bbr, out.Header)
			if err != nil {
				return nil, fmt.Errorf("circuitio: constraints section: %w", err)
			}
			out.Store = store
			haveConstraints = true
		case sectionWire2Label:
			if !haveHeader {
				return nil, fmt.Errorf("circuitio: wire2label section appeared before header section")
			}
			labels, err := readWireToLabel(bbr, out.Header)
			if err != nil {
				return nil, fmt.Errorf("circuitio: wire2label section: %w", err)
			}
			out.WireToLabel = labels
		default:
			// Unknown section: skip silently - an unrecognized section
			// isn't one of the required ones.
		}
		if _, err := io.Copy(io.Discard, bbr); err != nil {
			return nil, fmt.Errorf("circuitio: draining section %d: %w", i, err)
		}
	}

	if !haveHeader {
		return nil, fmt.Errorf("circuitio: r1cs file missing header section")
	}
	if !haveConstraints {
		return nil, fmt.Errorf("circuitio: r1cs file missing constraints section")
	}
	return out, nil
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readHeader(r io.Reader) (R1CSHeader, error) {
	fieldSize, err := readU32(r)
	if err != nil {
		return R1CSHeader{}, err
	}
	primeBytes := make([]byte, fieldSize)
	if _, err := io.ReadFull(r, primeBytes); err != nil {
		return R1CSHeader{}, err
	}
	h := R1CSHeader{FieldSize: fieldSize, Prime: leToBigInt(primeBytes)}
	if h.TotalWires, err = readU32(r); err != nil {
		return R1CSHeader{}, err
	}
	if h.PublicOutputs, err = readU32(r); err != nil {
		return R1CSHeader{}, err
	}
	if h.PublicInputs, err = readU32(r); err != nil {
		return R1CSHeader{}, err
	}
	if h.PrivateInputs, err = readU32(r); err != nil {
		return R1CSHeader{}, err
	}
	if h.NumLabels, err = readU64(r); err != nil {
		return R1CSHeader{}, err
	}
	if h.ConstraintCount, err = readU32(r); err != nil {
		return R1CSHeader{}, err
	}
	return h, nil
}

func leToBigInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

func readLinearCombination(r io.Reader, fieldSize uint32) (algebra.LinearForm, error) {
	n, err := readU32(r)
	if err != nil {
		return algebra.LinearForm{}, err
	}
	l := algebra.ZeroLinear()
	buf := make([]byte, fieldSize)
	for i := uint32(0); i < n; i++ {
		wireID, err := readU32(r)
		if err != nil {
			return algebra.LinearForm{}, err
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			return algebra.LinearForm{}, err
		}
		coef := field.FromBigInt(leToBigInt(buf))
		s := algebra.SignalID(wireID)
		if s == algebra.ConstSignal {
			l.Constant = field.Add(l.Constant, coef)
		} else {
			l.Terms[s] = field.Add(l.Terms[s], coef)
		}
	}
	return l, nil
}

func readConstraints(r io.Reader, h R1CSHeader) (*conststore.Store, error) {
	store := conststore.NewStore()
	for i := uint32(0); i < h.ConstraintCount; i++ {
		a, err := readLinearCombination(r, h.FieldSize)
		if err != nil {
			return nil, fmt.Errorf("constraint %d, A: %w", i, err)
		}
		b, err := readLinearCombination(r, h.FieldSize)
		if err != nil {
			return nil, fmt.Errorf("constraint %d, B: %w", i, err)
		}
		c, err := readLinearCombination(r, h.FieldSize)
		if err != nil {
			return nil, fmt.Errorf("constraint %d, C: %w", i, err)
		}
		store.Add(algebra.FixConstraint(algebra.Constraint{A: a, B: b, C: c}))
	}
	return store, nil
}

func readWireToLabel(r io.Reader, h R1CSHeader) ([]uint64, error) {
	labels := make([]uint64, h.TotalWires)
	for i := range labels {
		v, err := readU64(r)
		if err != nil {
			return nil, fmt.Errorf("wire %d label: %w", i, err)
		}
		labels[i] = v
	}
	return labels, nil
}

// InputSignals derives the {public inputs} U {private inputs} signal set
// from a decoded header, using the R1CS wire-ordering convention (wire 0
// is the constant; public outputs, then public inputs, then private
// inputs, then internal wires follow).
func (f *R1CSFile) InputSignals() map[algebra.SignalID]bool {
	out := map[algebra.SignalID]bool{}
	start := algebra.SignalID(1 + f.Header.PublicOutputs)
	end := start + algebra.SignalID(f.Header.PublicInputs+f.Header.PrivateInputs)
	for s := start; s < end; s++ {
		out[s] = true
	}
	return out
}

// OutputSignals derives the public-output signal set the same way.
func (f *R1CSFile) OutputSignals() map[algebra.SignalID]bool {
	out := map[algebra.SignalID]bool{}
	for s := algebra.SignalID(1); s <= algebra.SignalID(f.Header.PublicOutputs); s++ {
		out[s] = true
	}
	return out
}
