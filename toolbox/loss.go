package toolbox

// MeanSquaredError is the loss of a single prediction:
//
//	sum_j (a[j] - y[j])^2 / 2 / len(a)
//
// y (input) is the ground truth.  Missing entries count as 0, the same way the
// training rules treat a short target.
// a (input) is the layer's forward output.
func MeanSquaredError[F Float](y, a []F) F {
	if len(a) == 0 {
		return 0
	}

	outputSize := F(len(a))

	var loss F
	for j := range a {
		diff := a[j] - targetAt(y, j)
		loss += diff * diff / 2 / outputSize
	}
	return loss
}

// MeanSquaredErrorOver averages MeanSquaredError of lay over a set of samples.
// xs and ys are parallel; extra samples on either side are ignored.
func MeanSquaredErrorOver[F Float](lay Computer[F], xs, ys [][]F) F {
	n := min(len(xs), len(ys))
	if n == 0 {
		return 0
	}

	var loss F
	for k := 0; k < n; k++ {
		loss += MeanSquaredError(ys[k], lay.Compute(xs[k])) / F(n)
	}
	return loss
}
