package toolbox

// PerceptronRule is the classic delta rule: w[j,i] += Rate * (t[j] - a[j]) * x[i],
// computed on the activated output without the activation derivative.
type PerceptronRule[F Float] struct {
	Rate F
}

// GradientDescent is a single step of gradient descent through the layer's
// activation, see Dense.BackpropTrain.
type GradientDescent[F Float] struct {
	Rate F
}

// SupervisedRule is implemented by the training rules a Dense layer knows how
// to apply.  The set is closed; the update formula is chosen by the rule's
// type.
type SupervisedRule[F Float] interface {
	supervisedTrain(lay *Dense[F], input, target []F)
}

var (
	_ SupervisedRule[float32] = PerceptronRule[float32]{}
	_ SupervisedRule[float32] = GradientDescent[float32]{}
)

func (r PerceptronRule[F]) supervisedTrain(lay *Dense[F], input, target []F) {
	lay.perceptronTrain(r, input, target)
}

// Supervised gradient descent is backprop with the upstream error thrown away.
func (r GradientDescent[F]) supervisedTrain(lay *Dense[F], input, target []F) {
	lay.BackpropTrain(r, input, target)
}
