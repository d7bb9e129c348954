// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/solrunner/go/abi"
	"github.com/Fantom-foundation/solrunner/go/examples"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"driver"}, args...))
	return out.String(), err
}

func writeExamples(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if _, err := runApp(t, "examples", filepath.Join(root, "out")); err != nil {
		t.Fatalf("failed to write examples: %v", err)
	}
	return root
}

func TestArtifacts_ListsContractsAndMethods(t *testing.T) {
	root := writeExamples(t)
	out, err := runApp(t, "artifacts", "--project", root)
	if err != nil {
		t.Fatalf("failed to list artifacts: %v", err)
	}
	for _, want := range []string{
		"Adder (",
		"add(uint256,uint256) [0x771602f7, pure]",
		"constructor(uint256)",
		"echo(string,uint256[])",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestArtifacts_FilterSelectsContracts(t *testing.T) {
	root := writeExamples(t)
	out, err := runApp(t, "artifacts", "--project", root, "--filter", "^Counter$")
	if err != nil {
		t.Fatalf("failed to list artifacts: %v", err)
	}
	if !strings.Contains(out, "Counter (") || strings.Contains(out, "Adder") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestArtifacts_MissingBuildOutputIsReported(t *testing.T) {
	if _, err := runApp(t, "artifacts", "--project", t.TempDir()); err == nil {
		t.Errorf("expected missing build output to be reported")
	}
}

func TestCalldata_EncodesCall(t *testing.T) {
	out, err := runApp(t, "calldata", "add(uint,uint256)", "2", "0x3")
	if err != nil {
		t.Fatalf("failed to encode call: %v", err)
	}
	want := "0x771602f7" +
		strings.Repeat("0", 63) + "2" +
		strings.Repeat("0", 63) + "3"
	if got := strings.TrimSpace(out); want != got {
		t.Errorf("unexpected call data\nwanted %s\n   got %s", want, got)
	}
}

func TestCalldata_InvalidInputsAreReported(t *testing.T) {
	tests := map[string][]string{
		"no signature":      {},
		"missing argument":  {"add(uint256,uint256)", "1"},
		"invalid integer":   {"set(uint256)", "one"},
		"negative unsigned": {"set(uint256)", "-1"},
		"no parentheses":    {"set", "1"},
		"unknown type":      {"set(uint7)", "1"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := runApp(t, append([]string{"calldata"}, args...)...); err == nil {
				t.Errorf("expected error for %v", args)
			}
		})
	}
}

func TestParseSignature_ProducesCanonicalForm(t *testing.T) {
	tests := map[string]string{
		"f()":                    "f()",
		"f(uint)":                "f(uint256)",
		"f(int,byte)":            "f(int256,bytes1)",
		"f((uint,bool)[],bytes)": "f((uint256,bool)[],bytes)",
	}
	for input, want := range tests {
		got, types, err := parseSignature(input)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", input, err)
		}
		if want != got {
			t.Errorf("unexpected canonical form of %s, wanted %s, got %s", input, want, got)
		}
		if abi.Signature("f", types) != want {
			t.Errorf("types of %s do not match signature", input)
		}
	}
}

func TestCall_DeploysAndCallsContract(t *testing.T) {
	root := writeExamples(t)
	out, err := runApp(t, "call", "--project", root, "Adder", "add", "2", "3")
	if err != nil {
		t.Fatalf("failed to call contract: %v", err)
	}
	if !strings.Contains(out, "0: uint256 = 5") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCall_PassesConstructorArguments(t *testing.T) {
	root := writeExamples(t)
	out, err := runApp(t, "call", "--project", root, "--constructor", "42", "Counter", "get")
	if err != nil {
		t.Fatalf("failed to call contract: %v", err)
	}
	if !strings.Contains(out, "0: uint256 = 42") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCall_RevertIsReported(t *testing.T) {
	root := writeExamples(t)
	_, err := runApp(t, "call", "--project", root, "Adder", "fail")
	if err == nil || !strings.Contains(err.Error(), examples.RevertMessage) {
		t.Errorf("expected revert to be reported, got %v", err)
	}
}

func TestCall_UnknownNamesAreReported(t *testing.T) {
	root := writeExamples(t)
	if _, err := runApp(t, "call", "--project", root, "Missing", "add"); err == nil {
		t.Errorf("expected unknown contract to be reported")
	}
	if _, err := runApp(t, "call", "--project", root, "Adder", "sub"); err == nil {
		t.Errorf("expected unknown method to be reported")
	}
}

func TestExamples_FilterSelectsExamples(t *testing.T) {
	out, err := runApp(t, "examples", "--filter", "^(Adder|Echo)$", t.TempDir())
	if err != nil {
		t.Fatalf("failed to write examples: %v", err)
	}
	if !strings.Contains(out, "wrote 2 contracts") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
