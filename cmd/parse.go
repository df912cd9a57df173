// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/dlclark/regexp2"
	"github.com/nlpodyssey/tiled"
	"github.com/nlpodyssey/tiled/dtype"
)

var (
	stepPattern   = regexp2.MustCompile(`^\s*(?<name>[a-z_]+)\s*\(\s*(?<args>[^()]*?)\s*\)\s*$`, regexp2.None)
	intPattern    = regexp2.MustCompile(`^[+-]?\d+$`, regexp2.None)
	numberPattern = regexp2.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$|^[+-]?(?i:inf|nan)$`, regexp2.None)
)

// expr is a parsed tensor expression: a constructor and the transforms
// applied to its result.
type expr struct {
	build func() (tiled.Tensor, error)
	steps []tiled.Transform
}

func (e expr) eval() (tiled.Tensor, error) {
	return tiled.From(e.build()).Then(e.steps...).Tensor()
}

type call struct {
	name string
	args []string
}

type constructor func(args []string) (func() (tiled.Tensor, error), error)

type transform func(args []string) (tiled.Transform, error)

var constructors = map[string]constructor{
	"arange": parseArange,
	"zeros":  parseFill(tiled.Zeros),
	"ones":   parseFill(tiled.Ones),
	"full":   parseFull,
	"eye":    parseEye,
}

var transforms = map[string]transform{
	"reshape":      parseReshape,
	"to_tiled":     parseToTiled,
	"to_row_major": parseToRowMajor,
}

// parseExpr parses steps separated by "|", the first being a constructor.
func parseExpr(s string) (expr, error) {
	var e expr
	for i, src := range strings.Split(s, "|") {
		c, err := parseCall(src)
		if err != nil {
			return expr{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		if i == 0 {
			parse, ok := constructors[c.name]
			if !ok {
				if _, isTransform := transforms[c.name]; isTransform {
					return expr{}, fmt.Errorf("step 1: expression must start with a constructor, got %q", c.name)
				}
				return expr{}, fmt.Errorf("step 1: %w", unknownStep("constructor", c.name, slices.Sorted(maps.Keys(constructors))))
			}
			if e.build, err = parse(c.args); err != nil {
				return expr{}, fmt.Errorf("step 1: %s: %w", c.name, err)
			}
			continue
		}
		parse, ok := transforms[c.name]
		if !ok {
			if _, isConstructor := constructors[c.name]; isConstructor {
				return expr{}, fmt.Errorf("step %d: %s must be the first step", i+1, c.name)
			}
			return expr{}, fmt.Errorf("step %d: %w", i+1, unknownStep("transform", c.name, slices.Sorted(maps.Keys(transforms))))
		}
		step, err := parse(c.args)
		if err != nil {
			return expr{}, fmt.Errorf("step %d: %s: %w", i+1, c.name, err)
		}
		e.steps = append(e.steps, step)
	}
	return e, nil
}

// unknownStep suggests the known name closest to name, when within two edits.
func unknownStep(kind, name string, known []string) error {
	best, dist := "", 3
	for _, k := range known {
		if d := levenshtein.ComputeDistance(name, k); d < dist {
			best, dist = k, d
		}
	}
	if best == "" {
		return fmt.Errorf("unknown %s %q", kind, name)
	}
	return fmt.Errorf("unknown %s %q, did you mean %q?", kind, name, best)
}

func parseCall(s string) (call, error) {
	m, err := stepPattern.FindStringMatch(s)
	if err != nil {
		return call{}, err
	}
	if m == nil {
		return call{}, fmt.Errorf("invalid step %q", strings.TrimSpace(s))
	}
	c := call{name: m.GroupByName("name").String()}
	if args := m.GroupByName("args").String(); args != "" {
		for _, a := range strings.Split(args, ",") {
			c.args = append(c.args, strings.TrimSpace(a))
		}
	}
	return c, nil
}

func isMatch(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// splitDType separates an optional trailing data type name from the
// numeric arguments.
func splitDType(args []string) ([]string, dtype.DType, error) {
	n := len(args)
	if n == 0 || isMatch(numberPattern, args[n-1]) {
		return args, dtype.Float32, nil
	}
	dt, err := dtype.Parse(args[n-1])
	if err != nil {
		return nil, 0, err
	}
	return args[:n-1], dt, nil
}

func parseInt(s string) (int64, error) {
	if !isMatch(intPattern, s) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseDims(args []string) ([]int, error) {
	dims := make([]int, len(args))
	for i, a := range args {
		v, err := parseInt(a)
		if err != nil {
			return nil, err
		}
		dims[i] = int(v)
	}
	return dims, nil
}

func parseNumber(s string) (float64, error) {
	if !isMatch(numberPattern, s) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

func parseArange(args []string) (func() (tiled.Tensor, error), error) {
	args, dt, err := splitDType(args)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("expected start, stop and optional step, got %d arguments", len(args))
	}
	v := []int64{0, 0, 1}
	for i, a := range args {
		if v[i], err = parseInt(a); err != nil {
			return nil, err
		}
	}
	return func() (tiled.Tensor, error) {
		return tiled.ArangeStep(v[0], v[1], v[2], dt)
	}, nil
}

func parseFill(fn func(dtype.DType, ...int) (tiled.Tensor, error)) constructor {
	return func(args []string) (func() (tiled.Tensor, error), error) {
		args, dt, err := splitDType(args)
		if err != nil {
			return nil, err
		}
		dims, err := parseDims(args)
		if err != nil {
			return nil, err
		}
		return func() (tiled.Tensor, error) { return fn(dt, dims...) }, nil
	}
}

func parseFull(args []string) (func() (tiled.Tensor, error), error) {
	args, dt, err := splitDType(args)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errors.New("missing fill value")
	}
	value, err := parseNumber(args[0])
	if err != nil {
		return nil, err
	}
	dims, err := parseDims(args[1:])
	if err != nil {
		return nil, err
	}
	return func() (tiled.Tensor, error) { return tiled.Full(value, dt, dims...) }, nil
}

func parseEye(args []string) (func() (tiled.Tensor, error), error) {
	args, dt, err := splitDType(args)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("expected rows and cols, got %d arguments", len(args))
	}
	dims, err := parseDims(args)
	if err != nil {
		return nil, err
	}
	return func() (tiled.Tensor, error) { return tiled.Eye(dims[0], dims[1], dt) }, nil
}

func parseReshape(args []string) (tiled.Transform, error) {
	dims, err := parseDims(args)
	if err != nil {
		return nil, err
	}
	return tiled.Reshape(dims...), nil
}

func parseToTiled(args []string) (tiled.Transform, error) {
	switch len(args) {
	case 0:
		return tiled.ToTiled(), nil
	case 1:
		tile, err := parseInt(args[0])
		if err != nil {
			return nil, err
		}
		return tiled.ToTiledExtent(int(tile)), nil
	}
	return nil, fmt.Errorf("expected optional tile extent, got %d arguments", len(args))
}

func parseToRowMajor(args []string) (tiled.Transform, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("expected no arguments, got %d", len(args))
	}
	return tiled.ToRowMajor(), nil
}
