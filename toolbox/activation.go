package toolbox

// Activation is an element-wise nonlinearity and its derivative, both
// evaluated at the pre-activation (linear) output z of a layer.
//
// A layer never inspects these functions; any pair of pure functions works.
type Activation[F Float] struct {
	Value      func(z F) F
	Derivative func(z F) F
}

// Identity passes z through unchanged.  Its derivative is 1 everywhere.
func Identity[F Float]() Activation[F] {
	return Activation[F]{
		Value:      func(z F) F { return z },
		Derivative: func(z F) F { return 1 },
	}
}

// Sigmoid is the logistic function 1 / (1 + e^-z).
func Sigmoid[F Float]() Activation[F] {
	return Activation[F]{
		Value: func(z F) F {
			return 1 / (1 + exp(-z))
		},
		// s*(1-s) stays finite when exp(-z) overflows; the quotient form
		// e^-z / (1+e^-z)^2 gives Inf/Inf there.
		Derivative: func(z F) F {
			s := 1 / (1 + exp(-z))
			return s * (1 - s)
		},
	}
}

// ReLU is max(z, 0).  The derivative at exactly 0 is taken to be 0.
func ReLU[F Float]() Activation[F] {
	return Activation[F]{
		Value: func(z F) F {
			if z <= 0 {
				return 0
			}
			return z
		},
		Derivative: func(z F) F {
			if z <= 0 {
				return 0
			}
			return 1
		},
	}
}

func Tanh[F Float]() Activation[F] {
	return Activation[F]{
		Value: func(z F) F {
			return tanh(z)
		},
		Derivative: func(z F) F {
			t := tanh(z)
			return 1 - t*t
		},
	}
}

// ActivationByName looks up one of the built-in activations.  Used by the
// commands to turn a flag value into an Activation.
func ActivationByName[F Float](name string) (Activation[F], bool) {
	switch name {
	case "identity", "linear":
		return Identity[F](), true
	case "sigmoid":
		return Sigmoid[F](), true
	case "relu":
		return ReLU[F](), true
	case "tanh":
		return Tanh[F](), true
	default:
		return Activation[F]{}, false
	}
}
