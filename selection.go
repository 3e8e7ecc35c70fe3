/*
 * selection.go, part of trjstat.
 *
 * Copyright 2026 The trjstat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package trjstat

import (
	"fmt"
	"strconv"
	"strings"
)

//Select returns the sorted indexes of the atoms in top matched by expr.
//
//The selection language has the terms "all", "none", "name A B ...",
//"index i j-k ..." (0-based, ranges inclusive) and "element E ...".
//Terms can be negated with "not" and combined with "and" and "or", which
//are evaluated left to right with the same precedence. The empty
//expression selects all atoms.
func Select(top *Topology, expr string) ([]int, error) {
	mask, err := SelectMask(top, expr)
	if err != nil {
		return nil, err
	}
	ret := make([]int, 0, len(mask))
	for i, v := range mask {
		if v {
			ret = append(ret, i)
		}
	}
	return ret, nil
}

//SelectMask is like Select, but returns a slice with one boolean per atom.
func SelectMask(top *Topology, expr string) ([]bool, error) {
	p := &selParser{top: top, toks: strings.Fields(expr), expr: expr}
	if len(p.toks) == 0 {
		return p.fill(true), nil
	}
	acc, err := p.term()
	if err != nil {
		return nil, err
	}
	for !p.done() {
		op := strings.ToLower(p.next())
		if op != "and" && op != "or" {
			return nil, p.errorf("expected 'and' or 'or', found %q", op)
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		for i := range acc {
			if op == "and" {
				acc[i] = acc[i] && right[i]
			} else {
				acc[i] = acc[i] || right[i]
			}
		}
	}
	return acc, nil
}

type selParser struct {
	top  *Topology
	toks []string
	pos  int
	expr string
}

func (p *selParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("trjstat.Select: %s in selection %q", fmt.Sprintf(format, args...), p.expr)
}

func (p *selParser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *selParser) next() string {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *selParser) fill(v bool) []bool {
	ret := make([]bool, p.top.Len())
	for i := range ret {
		ret[i] = v
	}
	return ret
}

func isSelKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "and", "or", "not", "all", "none", "name", "index", "element":
		return true
	}
	return false
}

//args returns the arguments of a term, up to the next keyword.
func (p *selParser) args(term string) ([]string, error) {
	var ret []string
	for !p.done() && !isSelKeyword(p.toks[p.pos]) {
		ret = append(ret, p.next())
	}
	if len(ret) == 0 {
		return nil, p.errorf("%q needs at least one argument", term)
	}
	return ret, nil
}

func (p *selParser) term() ([]bool, error) {
	if p.done() {
		return nil, p.errorf("unexpected end")
	}
	kw := strings.ToLower(p.next())
	switch kw {
	case "not":
		m, err := p.term()
		if err != nil {
			return nil, err
		}
		for i := range m {
			m[i] = !m[i]
		}
		return m, nil
	case "all":
		return p.fill(true), nil
	case "none":
		return p.fill(false), nil
	case "name", "element":
		words, err := p.args(kw)
		if err != nil {
			return nil, err
		}
		m := p.fill(false)
		for i := range m {
			val := p.top.Name(i)
			if kw == "element" {
				val = p.top.Symbol(i)
			}
			for _, w := range words {
				if val == w {
					m[i] = true
					break
				}
			}
		}
		return m, nil
	case "index":
		words, err := p.args(kw)
		if err != nil {
			return nil, err
		}
		m := p.fill(false)
		for _, w := range words {
			lo, hi, err := parseIndexRange(w)
			if err != nil {
				return nil, p.errorf("%v", err)
			}
			for i := lo; i <= hi && i < len(m); i++ {
				m[i] = true
			}
		}
		return m, nil
	}
	return nil, p.errorf("unknown term %q", kw)
}

func parseIndexRange(s string) (int, int, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	l, err := strconv.Atoi(lo)
	if err != nil || l < 0 {
		return 0, 0, fmt.Errorf("bad index %q", s)
	}
	if !isRange {
		return l, l, nil
	}
	h, err := strconv.Atoi(hi)
	if err != nil || h < l {
		return 0, 0, fmt.Errorf("bad index range %q", s)
	}
	return l, h, nil
}
