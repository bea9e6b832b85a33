// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package task

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadSAS reads a Task from a compact SAS+-like text format:
//
//	vars: <n>
//	domains: <d0> <d1> ... <dn-1>
//	init: <v0> <v1> ... <vn-1>
//	goal: <var>=<value> ...
//	operator <id>: pre <var>=<value> ... eff <var>=<value> ...
//
// Blank lines and lines starting with '#' are ignored. This is not a
// compatibility format for any external planner; it exists so the CLI has
// something concrete to read tasks from without depending on a full PDDL
// toolchain.
func LoadSAS(r io.Reader) (*Task, error) {
	scanner := bufio.NewScanner(r)
	var domains []int
	var initial []int
	var goal []Fact
	var operators []Operator

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "vars:"):
			// count is informational only; domains/init lengths are authoritative.
		case strings.HasPrefix(line, "domains:"):
			fields := strings.Fields(strings.TrimPrefix(line, "domains:"))
			for _, f := range fields {
				d, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("task: bad domain size %q: %w", f, err)
				}
				domains = append(domains, d)
			}
		case strings.HasPrefix(line, "init:"):
			fields := strings.Fields(strings.TrimPrefix(line, "init:"))
			for _, f := range fields {
				v, err := strconv.Atoi(f)
				if err != nil {
					return nil, fmt.Errorf("task: bad initial value %q: %w", f, err)
				}
				initial = append(initial, v)
			}
		case strings.HasPrefix(line, "goal:"):
			fields := strings.Fields(strings.TrimPrefix(line, "goal:"))
			for _, f := range fields {
				fact, err := parseFact(f)
				if err != nil {
					return nil, fmt.Errorf("task: bad goal fact %q: %w", f, err)
				}
				goal = append(goal, fact)
			}
		case strings.HasPrefix(line, "operator"):
			op, err := parseOperator(line)
			if err != nil {
				return nil, err
			}
			operators = append(operators, op)
		default:
			return nil, fmt.Errorf("task: unrecognized line %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(domains, operators, goal, initial)
}

func parseFact(s string) (Fact, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return Fact{}, fmt.Errorf("expected var=value, got %q", s)
	}
	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return Fact{}, err
	}
	val, err := strconv.Atoi(parts[1])
	if err != nil {
		return Fact{}, err
	}
	return Fact{Var: v, Value: val}, nil
}

// parseOperator parses a line of the form:
//
//	operator <id>: pre <var>=<value> ... eff <var>=<value> ...
func parseOperator(line string) (Operator, error) {
	rest := strings.TrimPrefix(line, "operator")
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return Operator{}, fmt.Errorf("task: malformed operator line %q", line)
	}
	idStr := strings.TrimSpace(rest[:colon])
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return Operator{}, fmt.Errorf("task: bad operator id %q: %w", idStr, err)
	}
	body := rest[colon+1:]
	preIdx := strings.Index(body, "pre")
	effIdx := strings.Index(body, "eff")
	if preIdx < 0 || effIdx < 0 || effIdx < preIdx {
		return Operator{}, fmt.Errorf("task: operator %d missing pre/eff sections", id)
	}
	preSection := body[preIdx+len("pre") : effIdx]
	effSection := body[effIdx+len("eff"):]

	op := Operator{ID: id}
	for _, f := range strings.Fields(preSection) {
		fact, err := parseFact(f)
		if err != nil {
			return Operator{}, fmt.Errorf("task: operator %d precondition: %w", id, err)
		}
		op.Preconditions = append(op.Preconditions, fact)
	}
	for _, f := range strings.Fields(effSection) {
		fact, err := parseFact(f)
		if err != nil {
			return Operator{}, fmt.Errorf("task: operator %d effect: %w", id, err)
		}
		op.Effects = append(op.Effects, fact)
	}
	return op, nil
}
