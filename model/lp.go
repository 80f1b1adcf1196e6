// SPDX-License-Identifier: MIT

package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteLP writes m in CPLEX LP format so an external MIP solver can read it.
// Precedence implications are written in their linear form.
func WriteLP(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\\ sprintplan: %d sprints, %d stories\n", m.b.NumSprints(), m.b.Len())

	bw.WriteString("Maximize\n obj:")
	if len(m.Objective) == 0 && len(m.Vars) > 0 {
		fmt.Fprintf(bw, " 0 %s", m.Vars[0].Name())
	}
	writeTerms(bw, m, m.Objective)
	bw.WriteString("\nSubject To\n")

	for _, c := range m.Capacity {
		writeLinear(bw, m, c)
	}
	for _, c := range m.Uniqueness {
		writeLinear(bw, m, c)
	}
	for _, p := range m.Precedence {
		// x[s][j] − Σ_{s′<s} x[s′][d] ≤ 0
		lin := Linear{Name: p.Name, Sense: LessEq, Terms: []Term{{Var: p.If, Coef: 1}}}
		for _, t := range p.Then.Terms {
			lin.Terms = append(lin.Terms, Term{Var: t.Var, Coef: -t.Coef})
		}
		writeLinear(bw, m, lin)
	}

	bw.WriteString("Binary\n")
	for _, v := range m.Vars {
		fmt.Fprintf(bw, " %s\n", v.Name())
	}
	bw.WriteString("End\n")

	return bw.Flush()
}

func writeLinear(bw *bufio.Writer, m *Model, c Linear) {
	fmt.Fprintf(bw, " %s:", c.Name)
	writeTerms(bw, m, c.Terms)
	fmt.Fprintf(bw, " %s %s\n", c.Sense, formatCoef(c.RHS))
}

func writeTerms(bw *bufio.Writer, m *Model, terms []Term) {
	for i, t := range terms {
		coef := t.Coef
		sign := "+"
		if coef < 0 {
			sign, coef = "-", -coef
		}
		switch {
		case i == 0 && sign == "+":
			bw.WriteString(" ")
		default:
			fmt.Fprintf(bw, " %s ", sign)
		}
		if coef != 1 {
			bw.WriteString(formatCoef(coef))
			bw.WriteString(" ")
		}
		bw.WriteString(m.Vars[t.Var].Name())
	}
}

func formatCoef(x float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(x, 'f', -1, 64), ".0")
}
