//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

func applyCredentials(c *exec.Cmd, uid, gid *uint32) error {
	if uid == nil && gid == nil {
		return nil
	}
	cred := &syscall.Credential{
		Uid: uint32(syscall.Getuid()),
		Gid: uint32(syscall.Getgid()),
	}
	if uid != nil {
		cred.Uid = *uid
	}
	if gid != nil {
		cred.Gid = *gid
		cred.NoSetGroups = true
	}
	c.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	return nil
}
