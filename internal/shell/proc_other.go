//go:build !unix

package shell

import "os/exec"

// killGroupOnCancel keeps exec's default of killing the shell process; the
// output pipes are then released by WaitDelay.
func killGroupOnCancel(*exec.Cmd) {}
