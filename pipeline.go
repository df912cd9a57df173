// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tiled

// A Transform maps a tensor to a new tensor, or fails.
// Transforms never modify their input.
type Transform func(Tensor) (Tensor, error)

// Pipe applies steps to t from left to right, returning the last result.
// Evaluation stops at the first failing step, whose error is returned
// unchanged.
func (t Tensor) Pipe(steps ...Transform) (Tensor, error) {
	var err error
	for _, step := range steps {
		if t, err = step(t); err != nil {
			return Tensor{}, err
		}
	}
	return t, nil
}

// Compose returns a Transform applying steps from left to right.
func Compose(steps ...Transform) Transform {
	return func(t Tensor) (Tensor, error) {
		return t.Pipe(steps...)
	}
}

// A Pipeline carries a tensor through a chain of transforms, along with
// the first error encountered.
//
//	t, err := From(Arange(1, 106, dtype.BFloat16)).
//		Then(Reshape(3, 5, 7)).
//		Then(ToTiled()).
//		Tensor()
type Pipeline struct {
	t   Tensor
	err error
}

// From starts a Pipeline from the results of a tensor constructor.
func From(t Tensor, err error) Pipeline {
	return Pipeline{t: t, err: err}
}

// Then applies steps to the pipeline tensor. Once an error has occurred,
// further steps are not evaluated.
func (p Pipeline) Then(steps ...Transform) Pipeline {
	if p.err != nil {
		return p
	}
	t, err := p.t.Pipe(steps...)
	return Pipeline{t: t, err: err}
}

// Err returns the first error encountered, if any.
func (p Pipeline) Err() error {
	return p.err
}

// Tensor returns the resulting tensor, or the first error encountered.
func (p Pipeline) Tensor() (Tensor, error) {
	if p.err != nil {
		return Tensor{}, p.err
	}
	return p.t, nil
}
