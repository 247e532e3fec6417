package circuitio

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/zkarkit/circuitkit/algebra"
	"github.com/zkarkit/circuitkit/conststore"
	"github.com/zkarkit/circuitkit/field"
)

// linearTermJSON is one {witness, coeff} entry of a constraint's linear
// part, per spec.md section 6.
type linearTermJSON struct {
	Witness int    `json:"witness"`
	Coeff   string `json:"coeff"`
}

// mulTermJSON is one {witness1, witness2, coeff} bilinear entry.
type mulTermJSON struct {
	Witness1 int    `json:"witness1"`
	Witness2 int    `json:"witness2"`
	Coeff    string `json:"coeff"`
}

// constraintJSON is one entry of the "constraints" array.
type constraintJSON struct {
	Linear   []linearTermJSON `json:"linear"`
	Mul      []mulTermJSON    `json:"mul"`
	Constant string           `json:"constant"`
}

// circuitJSON is the on-wire shape of spec.md section 6's "Circuit JSON":
// JSON witness indices are 0-based; signal 0 is reserved for the constant,
// so every witness index is read/written with a +1 offset internally.
type circuitJSON struct {
	Constraints     []constraintJSON `json:"constraints"`
	Inputs          []int            `json:"inputs"`
	Outputs         []int            `json:"outputs"`
	NumberOfSignals int              `json:"number_of_signals"`
}

// Circuit is the decoded, in-memory form of a Circuit JSON document: a
// constraint store holding every constraint representable as a single
// R1CS triple, plus inputs/outputs/signal-count bookkeeping. Constraints
// whose "mul" array carries more than one bilinear term are genuine
// sum-of-products AIR constraints with no single-triple R1CS
// representation; they are kept separately in AIROverflow rather than
// forced into the store, per the scope decision recorded in DESIGN.md
// (spec.md section 9 already flags general non-linear AIR handling as
// out of scope for this pass).
type Circuit struct {
	Store       *conststore.Store
	AIROverflow []algebra.AIRConstraint
	Inputs      map[algebra.SignalID]bool
	Outputs     map[algebra.SignalID]bool
	NumSignals  int
}

// witnessToSignal converts a 0-based JSON witness index to a 1-based
// internal signal id.
func witnessToSignal(w int) algebra.SignalID { return algebra.SignalID(w + 1) }

// signalToWitness is the inverse of witnessToSignal.
func signalToWitness(s algebra.SignalID) int { return int(s) - 1 }

func parseCoeff(s string) (field.Elem, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return field.Elem{}, fmt.Errorf("circuitio: malformed coefficient %q", s)
	}
	return field.FromSigned(v), nil
}

// ReadCircuitJSON decodes a Circuit JSON document (spec.md section 6).
func ReadCircuitJSON(r io.Reader) (*Circuit, error) {
	var doc circuitJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("circuitio: decode circuit json: %w", err)
	}

	out := &Circuit{
		Store:      conststore.NewStore(),
		Inputs:     map[algebra.SignalID]bool{},
		Outputs:    map[algebra.SignalID]bool{},
		NumSignals: doc.NumberOfSignals,
	}
	for _, w := range doc.Inputs {
		out.Inputs[witnessToSignal(w)] = true
	}
	for _, w := range doc.Outputs {
		out.Outputs[witnessToSignal(w)] = true
	}

	maxSeen := algebra.SignalID(0)
	track := func(s algebra.SignalID) {
		if s > maxSeen {
			maxSeen = s
		}
	}

	for i, cj := range doc.Constraints {
		linear := algebra.ZeroLinear()
		if cj.Constant != "" {
			c, err := parseCoeff(cj.Constant)
			if err != nil {
				return nil, fmt.Errorf("circuitio: constraint %d: %w", i, err)
			}
			linear.Constant = c
		}
		for _, lt := range cj.Linear {
			coef, err := parseCoeff(lt.Coeff)
			if err != nil {
				return nil, fmt.Errorf("circuitio: constraint %d linear term: %w", i, err)
			}
			s := witnessToSignal(lt.Witness)
			linear.Terms[s] = field.Add(linear.Terms[s], coef)
			track(s)
		}

		switch len(cj.Mul) {
		case 0:
			out.Store.Add(algebra.Constraint{A: algebra.ZeroLinear(), B: algebra.ZeroLinear(), C: algebra.NegLinear(linear)})
		case 1:
			mt := cj.Mul[0]
			coef, err := parseCoeff(mt.Coeff)
			if err != nil {
				return nil, fmt.Errorf("circuitio: constraint %d mul term: %w", i, err)
			}
			s1, s2 := witnessToSignal(mt.Witness1), witnessToSignal(mt.Witness2)
			track(s1)
			track(s2)
			a := algebra.SignalOnly(s1)
			b := algebra.ScaleLinear(algebra.SignalOnly(s2), coef)
			out.Store.Add(algebra.FixConstraint(algebra.Constraint{A: a, B: b, C: algebra.NegLinear(linear)}))
		default:
			air := algebra.AIRConstraint{Muls: map[algebra.MulKey]field.Elem{}, Linear: linear}
			for _, mt := range cj.Mul {
				coef, err := parseCoeff(mt.Coeff)
				if err != nil {
					return nil, fmt.Errorf("circuitio: constraint %d mul term: %w", i, err)
				}
				s1, s2 := witnessToSignal(mt.Witness1), witnessToSignal(mt.Witness2)
				track(s1)
				track(s2)
				mk := algebra.NewMulKey(s1, s2)
				air.Muls[mk] = field.Add(air.Muls[mk], coef)
			}
			out.AIROverflow = append(out.AIROverflow, algebra.FixAIRConstraint(air))
		}
	}

	if out.NumSignals != 0 && int(maxSeen) >= out.NumSignals {
		// spec.md section 6: "differences from the actual set are warned
		// on" - this package has no logger of its own (kept a dumb codec),
		// so the caller decides whether/how to surface the mismatch;
		// NumSignals is left as declared and MaxSignal below lets the
		// caller compare.
	}
	return out, nil
}

// MaxSignal returns the highest signal id referenced anywhere in c's
// stored or overflow constraints, for comparison against NumSignals.
func (c *Circuit) MaxSignal() algebra.SignalID {
	var max algebra.SignalID
	upd := func(l algebra.LinearForm) {
		for s, coef := range l.Terms {
			if coef.IsZero() {
				continue
			}
			if s > max {
				max = s
			}
		}
	}
	for _, id := range c.Store.GetIDs() {
		cc, _ := c.Store.Read(id)
		upd(cc.A)
		upd(cc.B)
		upd(cc.C)
	}
	for _, air := range c.AIROverflow {
		upd(air.Linear)
		for k := range air.Muls {
			if k.S > max {
				max = k.S
			}
			if k.T > max {
				max = k.T
			}
		}
	}
	return max
}

// WriteCircuitJSON encodes c back to the Circuit JSON shape. Pure-linear
// stored constraints are written as a linear-only entry. A non-linear
// stored constraint A*B - C = 0 is expanded: one mul entry per pair of
// nonzero signal terms of A and B, with the products involving A's or B's
// constant folded into the linear terms and the constant. A constraint
// whose A and B each have a single signal term therefore reads back as a
// single stored constraint; one that expands to several mul entries reads
// back into AIROverflow. AIROverflow constraints are written as they are.
func WriteCircuitJSON(w io.Writer, c *Circuit) error {
	doc := circuitJSON{NumberOfSignals: c.NumSignals}
	for s := range c.Inputs {
		doc.Inputs = append(doc.Inputs, signalToWitness(s))
	}
	for s := range c.Outputs {
		doc.Outputs = append(doc.Outputs, signalToWitness(s))
	}
	sort.Ints(doc.Inputs)
	sort.Ints(doc.Outputs)

	for _, id := range c.Store.GetIDs() {
		cc, ok := c.Store.Read(id)
		if !ok {
			continue
		}
		doc.Constraints = append(doc.Constraints, encodeConstraintJSON(cc))
	}
	for _, air := range c.AIROverflow {
		doc.Constraints = append(doc.Constraints, encodeAIRConstraintJSON(air))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("circuitio: encode circuit json: %w", err)
	}
	return nil
}

func encodeLinearTerms(l algebra.LinearForm) []linearTermJSON {
	var out []linearTermJSON
	for _, s := range l.SortedSignals() {
		coef := l.Terms[s]
		if coef.IsZero() {
			continue
		}
		out = append(out, linearTermJSON{Witness: signalToWitness(s), Coeff: coef.ToSigned().String()})
	}
	return out
}

func encodeConstraintJSON(cc algebra.Constraint) constraintJSON {
	if cc.IsLinear() {
		expr := algebra.NegLinear(cc.C)
		return constraintJSON{Linear: encodeLinearTerms(expr), Constant: expr.Constant.ToSigned().String()}
	}
	expr := algebra.NegLinear(cc.C)
	var mul []mulTermJSON
	for _, sa := range cc.A.SortedSignals() {
		ca := cc.A.Terms[sa]
		if ca.IsZero() {
			continue
		}
		for _, sb := range cc.B.SortedSignals() {
			cb := cc.B.Terms[sb]
			if cb.IsZero() {
				continue
			}
			mul = append(mul, mulTermJSON{Witness1: signalToWitness(sa), Witness2: signalToWitness(sb), Coeff: field.Mul(ca, cb).ToSigned().String()})
		}
		if !cc.B.Constant.IsZero() {
			expr.Terms[sa] = field.Add(expr.Terms[sa], field.Mul(ca, cc.B.Constant))
		}
	}
	if !cc.A.Constant.IsZero() {
		for _, sb := range cc.B.SortedSignals() {
			cb := cc.B.Terms[sb]
			if cb.IsZero() {
				continue
			}
			expr.Terms[sb] = field.Add(expr.Terms[sb], field.Mul(cc.A.Constant, cb))
		}
		expr.Constant = field.Add(expr.Constant, field.Mul(cc.A.Constant, cc.B.Constant))
	}
	return constraintJSON{Linear: encodeLinearTerms(expr), Mul: mul, Constant: expr.Constant.ToSigned().String()}
}

func encodeAIRConstraintJSON(air algebra.AIRConstraint) constraintJSON {
	var mul []mulTermJSON
	for _, k := range air.SortedMulKeys() {
		coef := air.Muls[k]
		if coef.IsZero() {
			continue
		}
		mul = append(mul, mulTermJSON{Witness1: signalToWitness(k.S), Witness2: signalToWitness(k.T), Coeff: coef.ToSigned().String()})
	}
	return constraintJSON{Linear: encodeLinearTerms(air.Linear), Mul: mul, Constant: air.Linear.Constant.ToSigned().String()}
}
