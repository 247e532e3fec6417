package algebra

import (
	"math/big"

	"github.com/zkarkit/circuitkit/field"
)

// ExprKind tags the shape of an Expr.
type ExprKind int

const (
	KindNumber ExprKind = iota
	KindSignal
	KindLinear
	KindQuadratic
	KindNonQuadratic
)

// Expr is a tagged sum representing a degree-<=2 polynomial over signals,
// or the absorbing NonQuadratic classification for anything of higher
// degree. Only the fields relevant to Kind are meaningful.
type Expr struct {
	Kind   ExprKind
	Number field.Elem
	Signal SignalID
	Linear LinearForm
	A, B, C LinearForm // Quadratic: A*B + C
}

// Num builds a Number expression.
func Num(v field.Elem) Expr { return Expr{Kind: KindNumber, Number: v} }

// Sig builds a Signal expression.
func Sig(s SignalID) Expr { return Expr{Kind: KindSignal, Signal: s} }

// Lin builds a Linear expression.
func Lin(l LinearForm) Expr { return Expr{Kind: KindLinear, Linear: l} }

// Quad builds a Quadratic expression A*B+C.
func Quad(a, b, c LinearForm) Expr { return Expr{Kind: KindQuadratic, A: a, B: b, C: c} }

// NonQuad is the absorbing "degree > 2" classification.
func NonQuad() Expr { return Expr{Kind: KindNonQuadratic} }

// asLinear returns the LinearForm view of any expression of degree <= 1,
// and false for Quadratic/NonQuadratic.
func asLinear(e Expr) (LinearForm, bool) {
	switch e.Kind {
	case KindNumber:
		return LinearForm{Constant: e.Number, Terms: map[SignalID]field.Elem{}}, true
	case KindSignal:
		return SignalOnly(e.Signal), true
	case KindLinear:
		return e.Linear, true
	default:
		return LinearForm{}, false
	}
}

// Add implements expression addition per the absorbing rules in
// spec.md section 4.2: NonQuadratic swallows everything; two degree-<=1
// operands combine into Linear, or into Number when every signal term
// cancels;
// Quadratic + degree-<=1 folds the addend into C; Quadratic + Quadratic
// overflows to NonQuadratic.
func Add(l, r Expr) Expr {
	if l.Kind == KindNonQuadratic || r.Kind == KindNonQuadratic {
		return NonQuad()
	}
	if l.Kind == KindQuadratic && r.Kind == KindQuadratic {
		return NonQuad()
	}
	if l.Kind == KindQuadratic {
		rl, _ := asLinear(r)
		return Quad(l.A, l.B, AddLinear(l.C, rl))
	}
	if r.Kind == KindQuadratic {
		return Add(r, l)
	}
	ll, _ := asLinear(l)
	rl, _ := asLinear(r)
	sum := AddLinear(ll, rl)
	if sum.IsConstant() {
		return Num(sum.Constant)
	}
	return Lin(sum)
}

// Sub implements l - r via Add(l, scale(r,-1)).
func Sub(l, r Expr) Expr {
	return Add(l, negate(r))
}

func negate(e Expr) Expr {
	switch e.Kind {
	case KindNumber:
		return Num(field.PrefixSub(e.Number))
	case KindSignal, KindLinear:
		lf, _ := asLinear(e)
		return Lin(NegLinear(lf))
	case KindQuadratic:
		return Quad(e.A, NegLinear(e.B), NegLinear(e.C))
	default:
		return NonQuad()
	}
}

// Mul implements expression multiplication per spec.md section 4.2:
// Number scales degree without raising it; Linear*Linear (which includes
// Signal*Signal and Signal*Linear, since Signal is a single-term Linear)
// yields Quadratic{A=L,B=R,C=0}; Quadratic*(Signal|Linear|Quadratic)
// overflows to NonQuadratic.
func Mul(l, r Expr) Expr {
	if l.Kind == KindNonQuadratic || r.Kind == KindNonQuadratic {
		return NonQuad()
	}
	if l.Kind == KindNumber {
		return scaleByNumber(r, l.Number)
	}
	if r.Kind == KindNumber {
		return scaleByNumber(l, r.Number)
	}
	if l.Kind == KindQuadratic || r.Kind == KindQuadratic {
		return NonQuad()
	}
	ll, _ := asLinear(l)
	rl, _ := asLinear(r)
	return Quad(ll, rl, ZeroLinear())
}

func scaleByNumber(e Expr, k field.Elem) Expr {
	switch e.Kind {
	case KindNumber:
		return Num(field.Mul(e.Number, k))
	case KindSignal, KindLinear:
		lf, _ := asLinear(e)
		return Lin(ScaleLinear(lf, k))
	case KindQuadratic:
		return Quad(ScaleLinear(e.A, k), e.B, ScaleLinear(e.C, k))
	default:
		return NonQuad()
	}
}

// Div implements expression division: defined only when r is a Number,
// per spec.md ("div(L,R) is defined only when R is a Number; otherwise
// returns NonQuadratic"). Division by the zero residue surfaces
// field.ErrDivisionByZero rather than folding into the NonQuadratic tag,
// since it's a genuine arithmetic error, not a degree classification.
func Div(l, r Expr) (Expr, error) {
	if r.Kind != KindNumber {
		return NonQuad(), nil
	}
	inv, err := field.Inverse(r.Number)
	if err != nil {
		return Expr{}, err
	}
	return scaleByNumber(l, inv), nil
}

// IDiv and ModOp accept only Number/Number operands (spec.md section 4.2);
// any other shape is classified NonQuadratic, mirroring Div's handling of
// degree mismatches.
func IDiv(l, r Expr) (Expr, error) {
	if l.Kind != KindNumber || r.Kind != KindNumber {
		return NonQuad(), nil
	}
	q, err := field.IDiv(l.Number, r.Number)
	if err != nil {
		return Expr{}, err
	}
	return Num(q), nil
}

func ModOp(l, r Expr) (Expr, error) {
	if l.Kind != KindNumber || r.Kind != KindNumber {
		return NonQuad(), nil
	}
	m, err := field.ModOp(l.Number, r.Number)
	if err != nil {
		return Expr{}, err
	}
	return Num(m), nil
}

// Pow implements expression exponentiation: Number^Number is field
// exponentiation; Signal^2 and Linear^2 fold to the corresponding
// Quadratic (self-multiplication); every other combination overflows to
// NonQuadratic.
func Pow(l, r Expr) Expr {
	if l.Kind == KindNumber && r.Kind == KindNumber {
		return Num(field.Pow(l.Number, r.Number.BigInt()))
	}
	if (l.Kind == KindSignal || l.Kind == KindLinear) && r.Kind == KindNumber {
		if r.Number.BigInt().Cmp(big.NewInt(2)) == 0 {
			return Mul(l, l)
		}
	}
	return NonQuad()
}
