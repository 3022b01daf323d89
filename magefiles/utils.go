//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/mg"
)

// invocation is one external tool run by a target.
type invocation struct {
	args []string
	// Working directory, relative to the module root. Empty is the root.
	dir string
	// Echo the tool output even without -v.
	stream bool
}

type cmdOption func(*invocation)

func withArgs(args ...string) cmdOption {
	return func(inv *invocation) { inv.args = append(inv.args, args...) }
}

func withDir(dir string) cmdOption {
	return func(inv *invocation) { inv.dir = dir }
}

func withStream() cmdOption {
	return func(inv *invocation) { inv.stream = true }
}

// executeCmd runs command and returns its combined output. Quiet runs only
// print the output when the command fails.
func executeCmd(command string, options ...cmdOption) (string, error) {
	var inv invocation
	for _, o := range options {
		o(&inv)
	}
	where := "."
	if inv.dir != "" {
		where = inv.dir
	}
	fmt.Printf("[%s] %s %s\n", where, command, strings.Join(inv.args, " "))

	cmd := exec.Command(command, inv.args...)
	cmd.Dir = inv.dir

	var out bytes.Buffer
	echo := inv.stream || mg.Verbose()
	if echo {
		cmd.Stdout = io.MultiWriter(&out, os.Stdout)
		cmd.Stderr = io.MultiWriter(&out, os.Stderr)
	} else {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}
	if err := cmd.Run(); err != nil {
		if !echo {
			os.Stderr.Write(out.Bytes())
		}
		return "", fmt.Errorf("%s %s: %w", command, strings.Join(inv.args, " "), err)
	}
	return out.String(), nil
}
