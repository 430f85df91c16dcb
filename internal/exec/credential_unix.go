//go:build !windows

package exec

import (
	osexec "os/exec"
	"os/user"
	"strconv"
	"strings"
	"syscall"

	"github.com/cout970/cron-go/internal/shared"
)

// setCredential resolves "user[:group]" — either side may be numeric or a
// name; an omitted group resolves to a group of the same name as the user
// (matching configfile's splitUserGroup, which validates the identical
// pair) — and sets it on cmd.SysProcAttr so the child drops to that
// identity before exec.
func setCredential(cmd *osexec.Cmd, runAs string) (uid, gid uint32, err error) {
	userPart, groupPart, hasGroup := strings.Cut(runAs, ":")
	if !hasGroup {
		groupPart = userPart
	}

	u, err := lookupUser(userPart)
	if err != nil {
		return 0, 0, shared.Wrapf(shared.MarkKind(err, shared.KindNotFound), "run_as user %q", userPart)
	}
	uid64, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, 0, shared.Wrapf(shared.MarkKind(err, shared.KindInternal), "run_as user %q: unparseable uid %q", userPart, u.Uid)
	}

	g, err := lookupGroup(groupPart)
	if err != nil {
		return 0, 0, shared.Wrapf(shared.MarkKind(err, shared.KindNotFound), "run_as group %q", groupPart)
	}
	gid64, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return 0, 0, shared.Wrapf(shared.MarkKind(err, shared.KindInternal), "run_as group %q: unparseable gid %q", groupPart, g.Gid)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{Credential: &syscall.Credential{Uid: uint32(uid64), Gid: uint32(gid64)}}
	return uint32(uid64), uint32(gid64), nil
}

func lookupUser(s string) (*user.User, error) {
	if _, err := strconv.ParseUint(s, 10, 32); err == nil {
		return user.LookupId(s)
	}
	return user.Lookup(s)
}

func lookupGroup(s string) (*user.Group, error) {
	if _, err := strconv.ParseUint(s, 10, 32); err == nil {
		return user.LookupGroupId(s)
	}
	return user.LookupGroup(s)
}
