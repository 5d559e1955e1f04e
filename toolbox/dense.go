package toolbox

import (
	"fmt"
)

// Computer is anything that maps an input vector to an output vector.
type Computer[F Float] interface {
	Compute(input []F) []F
	InputSize() int
	OutputSize() int
}

// SupervisedTrainer can be trained in place on one (input, target) pair.
type SupervisedTrainer[F Float] interface {
	SupervisedTrain(rule SupervisedRule[F], input, target []F)
}

// BackpropTrainer can be trained in place on one (input, target) pair, and
// returns the error signal to hand to an upstream layer.
type BackpropTrainer[F Float] interface {
	BackpropTrain(rule GradientDescent[F], input, target []F) []F
}

var (
	_ Computer[float32]          = (*Dense[float32])(nil)
	_ SupervisedTrainer[float32] = (*Dense[float32])(nil)
	_ BackpropTrainer[float64]   = (*Dense[float64])(nil)
)

// Dense is a fully-connected layer computing
//
//	a = f(W*x + B)
//
// where f is applied element-wise.
//
// Mismatched input and target lengths never fail.  Only the first
// min(InputSize(), len(input)) inputs contribute, and missing target entries
// are treated as 0.
//
// A Dense is not safe for concurrent use; callers must serialize training
// calls against everything else.
type Dense[F Float] struct {
	Activation Activation[F]

	W []F // Shape (OutputSize, InputSize), row-major.  len(W) == inputSize * len(B).
	B []F // Shape (OutputSize)

	inputSize int
}

// MakeDense creates a layer with every weight set to 1 and every bias set to 0.
func MakeDense[F Float](activation Activation[F], inputSize, outputSize int) *Dense[F] {
	checkSizes(inputSize, outputSize)

	lay := &Dense[F]{
		Activation: activation,
		W:          make([]F, inputSize*outputSize),
		B:          make([]F, outputSize),
		inputSize:  inputSize,
	}
	for i := range lay.W {
		lay.W[i] = 1
	}
	return lay
}

// MakeDenseFrom creates a layer whose parameters are drawn from gen.
//
// gen is called exactly inputSize*outputSize + outputSize times: first for
// every weight in row-major order, then for every bias.  A seeded generator
// therefore always produces the same layer.
func MakeDenseFrom[F Float](activation Activation[F], inputSize, outputSize int, gen func() F) *Dense[F] {
	checkSizes(inputSize, outputSize)
	if gen == nil {
		panic("nil generator")
	}

	lay := &Dense[F]{
		Activation: activation,
		W:          make([]F, inputSize*outputSize),
		B:          make([]F, outputSize),
		inputSize:  inputSize,
	}
	for i := range lay.W {
		lay.W[i] = gen()
	}
	for i := range lay.B {
		lay.B[i] = gen()
	}
	return lay
}

func checkSizes(inputSize, outputSize int) {
	if inputSize < 0 || outputSize < 0 {
		panic(fmt.Sprintf("invalid layer size: inputSize=%d outputSize=%d", inputSize, outputSize))
	}
}

func (lay *Dense[F]) InputSize() int {
	return lay.inputSize
}

// OutputSize is the number of biases; B is the source of truth.
func (lay *Dense[F]) OutputSize() int {
	return len(lay.B)
}

// At returns the weight connecting input i to output j.
func (lay *Dense[F]) At(j, i int) F {
	return lay.W[j*lay.inputSize+i]
}

// linear computes the pre-activation output z = W*x + B.  The returned slice
// is freshly allocated.
func (lay *Dense[F]) linear(x []F) []F {
	inputSize := lay.inputSize
	n := min(inputSize, len(x))
	x = x[:n]

	z := make([]F, len(lay.B))
	copy(z, lay.B)
	for j := range z {
		row := lay.W[j*inputSize : j*inputSize+n]
		for i := range row {
			z[j] += row[i] * x[i]
		}
	}
	return z
}

// Compute applies the layer in the forward direction.  The result always has
// length OutputSize().  Layer state is not modified.
func (lay *Dense[F]) Compute(input []F) []F {
	a := lay.linear(input)
	for j := range a {
		a[j] = lay.Activation.Value(a[j])
	}
	return a
}

// SupervisedTrain updates the layer in place with one step of rule.
func (lay *Dense[F]) SupervisedTrain(rule SupervisedRule[F], input, target []F) {
	rule.supervisedTrain(lay, input, target)
}

// perceptronTrain only touches W; biases are left alone.
func (lay *Dense[F]) perceptronTrain(rule PerceptronRule[F], input, target []F) {
	inputSize := lay.inputSize
	n := min(inputSize, len(input))

	a := lay.Compute(input)
	for j := range a {
		diff := targetAt(target, j) - a[j]
		row := lay.W[j*inputSize : j*inputSize+n]
		for i := range row {
			row[i] += rule.Rate * diff * input[i]
		}
	}
}

// BackpropTrain performs one gradient-descent step and returns the signal for
// the upstream layer.
//
// With z = W*x + B, a = f(z) and d = f'(z), every in-range weight moves by
//
//	W[j,i] -= rate * x[i] * d[j] * (a[j] - t[j])
//
// and the returned vector, which has len(input) entries, is
//
//	e[i] = x[i] - sum_j W[j,i] * d[j]
//
// using the weights as they were before the update.  Note that e starts from
// the raw input rather than from zero, and that B is not updated.
func (lay *Dense[F]) BackpropTrain(rule GradientDescent[F], input, target []F) []F {
	inputSize := lay.inputSize
	n := min(inputSize, len(input))

	z := lay.linear(input)

	d := make([]F, len(z))
	a := make([]F, len(z))
	for j := range z {
		d[j] = lay.Activation.Derivative(z[j])
		a[j] = lay.Activation.Value(z[j])
	}

	e := make([]F, len(input))
	copy(e, input)
	for j := range z {
		diff := a[j] - targetAt(target, j)
		row := lay.W[j*inputSize : j*inputSize+n]
		for i := range row {
			e[i] -= row[i] * d[j]
			row[i] -= rule.Rate * input[i] * d[j] * diff
		}
	}
	return e
}

func targetAt[F Float](target []F, j int) F {
	if j < len(target) {
		return target[j]
	}
	return 0
}
