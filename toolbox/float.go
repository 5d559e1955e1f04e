package toolbox

import (
	"math"

	"github.com/chewxy/math32"
)

// Float is the element type shared by a layer's weights, biases, inputs and
// activation functions.
type Float interface {
	~float32 | ~float64
}

// exp evaluates e**x in the precision of F.  float32 goes through math32 so we
// don't round-trip through float64.
func exp[F Float](x F) F {
	switch v := any(x).(type) {
	case float32:
		return F(math32.Exp(v))
	default:
		return F(math.Exp(float64(x)))
	}
}

func tanh[F Float](x F) F {
	switch v := any(x).(type) {
	case float32:
		return F(math32.Tanh(v))
	default:
		return F(math.Tanh(float64(x)))
	}
}
