//go:build !unix

package runner

import (
	"errors"
	"os/exec"
)

func applyCredentials(_ *exec.Cmd, uid, gid *uint32) error {
	if uid == nil && gid == nil {
		return nil
	}
	return errors.New("uid/gid switching is not supported on this platform")
}
