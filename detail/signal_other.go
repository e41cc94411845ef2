//go:build !unix

package detail

import (
	"errors"
	"os/exec"
)

var errNoJobControl = errors.New("pause not supported on this platform")

func suspendProcess(*exec.Cmd) error { return errNoJobControl }
func resumeProcess(*exec.Cmd) error  { return errNoJobControl }
