package main

import (
	"fmt"
	"math/rand"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// dataset holds parallel input and target vectors, one row per sample.
type dataset struct {
	xs [][]float64
	ys [][]float64
}

func (d *dataset) inputSize() int {
	if len(d.xs) == 0 {
		return 0
	}
	return len(d.xs[0])
}

func (d *dataset) outputSize() int {
	if len(d.ys) == 0 {
		return 0
	}
	return len(d.ys[0])
}

// generateDataset generates m points in the unit square, classified by which
// side of x1 = x0 they fall on.
func generateDataset(m int, seed int64) *dataset {
	r := rand.New(rand.NewSource(seed))

	d := &dataset{}
	for i := 0; i < m; i++ {
		x0 := r.Float64()
		x1 := r.Float64()
		y := 0.0
		if x1 > x0 {
			y = 1.0
		}

		d.xs = append(d.xs, []float64{x0, x1})
		d.ys = append(d.ys, []float64{y})
	}

	return d
}

// withBiasInput returns a copy of d with a constant 1 appended to every input.
// The training rules never move the layer biases, so this is how the simulator
// lets a layer learn an offset.
func (d *dataset) withBiasInput() *dataset {
	out := &dataset{ys: d.ys}
	for _, x := range d.xs {
		xb := make([]float64, len(x)+1)
		copy(xb, x)
		xb[len(x)] = 1
		out.xs = append(out.xs, xb)
	}
	return out
}

// loadDataset reads the float64 arrays "x" (shape (samples, inputs)) and "y"
// (shape (samples, outputs)) from an npz file.
func loadDataset(path string) (*dataset, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening data file: %w", err)
	}
	defer r.Close()

	var x, y mat.Dense
	if err := r.Read("x.npy", &x); err != nil {
		return nil, fmt.Errorf("while reading x.npy: %w", err)
	}
	if err := r.Read("y.npy", &y); err != nil {
		return nil, fmt.Errorf("while reading y.npy: %w", err)
	}

	xRows, _ := x.Dims()
	yRows, _ := y.Dims()
	if xRows != yRows {
		return nil, fmt.Errorf("x has %d samples but y has %d", xRows, yRows)
	}

	d := &dataset{}
	for k := 0; k < xRows; k++ {
		d.xs = append(d.xs, mat.Row(nil, k, &x))
		d.ys = append(d.ys, mat.Row(nil, k, &y))
	}
	return d, nil
}

// saveDataset writes d in the format loadDataset reads.
func saveDataset(path string, d *dataset) error {
	if len(d.xs) == 0 {
		return fmt.Errorf("empty dataset")
	}

	x := mat.NewDense(len(d.xs), d.inputSize(), nil)
	y := mat.NewDense(len(d.ys), d.outputSize(), nil)
	for k := range d.xs {
		x.SetRow(k, d.xs[k])
		y.SetRow(k, d.ys[k])
	}

	w, err := npz.Create(path)
	if err != nil {
		return fmt.Errorf("while creating data file: %w", err)
	}
	if err := w.Write("x.npy", x); err != nil {
		w.Close()
		return fmt.Errorf("while writing x.npy: %w", err)
	}
	if err := w.Write("y.npy", y); err != nil {
		w.Close()
		return fmt.Errorf("while writing y.npy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("while closing data file: %w", err)
	}
	return nil
}
