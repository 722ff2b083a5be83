package dispatch

import (
	"errors"
	"strconv"
	"strings"

	simdiskerrors "simdisk/errors"
	"simdisk/fs"
	"simdisk/mailbox"
	"simdisk/session"
)

// CommandFunc executes one shell command against fsys on behalf of sess,
// returning the text to place in the response body.
type CommandFunc func(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error)

// CommandTable is a pure lookup from command name to implementation, the
// Go substitute for the reference simdisk() function's long if/else
// chain on args[0].
type CommandTable map[string]CommandFunc

// DefaultCommandTable returns every simdisk command except `exit` and
// `rd`, which execute dispatches by name.
func DefaultCommandTable() CommandTable {
	return CommandTable{
		"cat":     cmdCat,
		"cd":      cmdCd,
		"check":   cmdCheck,
		"copy":    cmdCopy,
		"del":     cmdDel,
		"dir":     cmdDir,
		"info":    cmdInfo,
		"ls":      cmdDir,
		"ll":      cmdDirLong,
		"md":      cmdMd,
		"newfile": cmdNewfile,
		"save":    cmdSave,
		"su":      cmdSu,
		"sudo":    cmdSudo,
	}
}

func joinErr(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	return prefix + ": " + err.Error()
}

func cmdCat(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	if len(args) < 1 {
		return "", simdiskerrors.ErrInvalidArgument.WithMessage("cat requires a path")
	}
	chunk, _, err := fsys.CatFile(sess, args[0])
	if err != nil {
		return "", err
	}
	return string(chunk), nil
}

func cmdCopy(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	if len(args) < 2 {
		return "", simdiskerrors.ErrInvalidArgument.WithMessage("copy requires a source and destination")
	}
	return "", fsys.Copy(sess, args[0], args[1])
}

func cmdCd(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if err := fsys.ChangeDirectory(sess, path); err != nil {
		return "", err
	}
	return "", nil
}

func cmdCheck(fsys *fs.FileSystem, _ *session.Session, _ []string) (string, error) {
	return fsys.Check()
}

func cmdDel(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	for _, path := range args {
		if err := fsys.RemoveFile(sess, path); err != nil {
			return "", err
		}
	}
	return "", nil
}

func cmdDir(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	return listCommand(fsys, sess, args, false)
}

// cmdDirLong implements `ll`: the same listing as `dir`/`ls` but with the
// mode bits, owner, first block address, size, and capacity columns the
// plain listing omits.
func cmdDirLong(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	return listCommand(fsys, sess, args, true)
}

func listCommand(fsys *fs.FileSystem, sess *session.Session, args []string, long bool) (string, error) {
	path := ""
	dirsOnly := false
	for _, a := range args {
		if a == "-s" {
			dirsOnly = true
			continue
		}
		path = a
	}
	lines, err := fsys.List(sess, path, dirsOnly, long)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func cmdInfo(fsys *fs.FileSystem, _ *session.Session, args []string) (string, error) {
	info := fsys.Stat()
	if len(args) > 0 {
		switch args[0] {
		case "-h":
			return info.Human(), nil
		case "-i":
			return info.InodeFocused(), nil
		}
	}
	return info.String(), nil
}

func cmdMd(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	for _, path := range args {
		if err := fsys.MakeDirectory(sess, path); err != nil {
			return "", err
		}
	}
	return "", nil
}

func cmdNewfile(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	for _, path := range args {
		if err := fsys.CreateFile(sess, path); err != nil {
			return "", err
		}
	}
	return "", nil
}

// cmdRd implements the two-phase `rd` confirm protocol: a non-empty target
// reports ErrWaitRequest back to execute unless confirmed is set, which
// execute only does when the client resent the command tagged
// Option::RESPONSE.
func cmdRd(fsys *fs.FileSystem, sess *session.Session, args []string, confirmed bool) (string, error) {
	for _, path := range args {
		if err := fsys.RemoveDirectory(sess, path, confirmed); err != nil {
			return "", err
		}
	}
	return "", nil
}

func cmdSave(fsys *fs.FileSystem, _ *session.Session, _ []string) (string, error) {
	return "", fsys.Save()
}

func cmdSu(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	if len(args) < 2 {
		return "", simdiskerrors.ErrInvalidArgument.WithMessage("su requires username and password")
	}
	return "", fsys.Su(sess, args[0], args[1])
}

func cmdSudo(fsys *fs.FileSystem, sess *session.Session, args []string) (string, error) {
	if len(args) < 1 {
		return "", simdiskerrors.ErrInvalidArgument.WithMessage("sudo requires a subcommand")
	}
	switch args[0] {
	case "useradd":
		if len(args) < 3 {
			return "", simdiskerrors.ErrInvalidArgument.WithMessage("sudo useradd requires username and password")
		}
		return "", fsys.UserAdd(args[1], args[2])
	case "chmod":
		if len(args) < 3 {
			return "", simdiskerrors.ErrInvalidArgument.WithMessage("sudo chmod requires an expression and a path")
		}
		return "", fsys.Chmod(sess, args[1], args[2])
	default:
		return "", simdiskerrors.ErrInvalidArgument.WithMessage("unknown sudo subcommand")
	}
}

// execute runs one queued Message against the filesystem and builds a
// Response, mirroring the reference simdisk()/Cooker::get_request pairing
// of "look up the session, dispatch on command, build a response".
func (d *Dispatcher) execute(msg mailbox.Message) mailbox.Response {
	switch msg.Option {
	case mailbox.OptionNew:
		root, _ := d.fsys.Sessions.Get(0)
		d.fsys.Sessions.Put(msg.PID, session.New("root", root.Root))
		return mailbox.Response{ID: msg.ID, Code: mailbox.Success, Option: mailbox.OptionNone}

	case mailbox.OptionPatch:
		sess, ok := d.fsys.Sessions.Get(msg.PID)
		if !ok {
			return mailbox.Response{ID: msg.ID, Code: mailbox.Failure}
		}
		fields := strings.Fields(msg.Command)
		idx := 0
		if len(fields) >= 2 {
			idx, _ = strconv.Atoi(fields[1])
		}
		chunk := fs.Patch(sess, idx)
		return mailbox.Response{ID: msg.ID, Data: string(chunk), Code: mailbox.Success, Option: mailbox.OptionPatch}

	case mailbox.OptionTab:
		sess, ok := d.fsys.Sessions.Get(msg.PID)
		if !ok {
			return mailbox.Response{ID: msg.ID, Code: mailbox.Failure}
		}
		return mailbox.Response{ID: msg.ID, Data: completePrefix(d.fsys, sess, msg.Command), Code: mailbox.Success, Option: mailbox.OptionTab}

	case mailbox.OptionGet:
		sess, ok := d.fsys.Sessions.Get(msg.PID)
		if !ok {
			return mailbox.Response{ID: msg.ID, Code: mailbox.Failure}
		}
		fields := strings.Fields(msg.Command)
		if len(fields) < 2 {
			return mailbox.Response{ID: msg.ID, Code: mailbox.Failure, Data: "cat requires a mode flag and a path"}
		}
		hostPath, err := d.fsys.BeginEdit(sess, fields[1], fields[0] == "-w")
		if err != nil {
			return mailbox.Response{ID: msg.ID, Code: errorToCode(err), Data: joinErr("", err)}
		}
		return mailbox.Response{ID: msg.ID, Data: hostPath, Code: mailbox.Success, Option: mailbox.OptionGet}

	case mailbox.OptionRead:
		sess, ok := d.fsys.Sessions.Get(msg.PID)
		if !ok {
			return mailbox.Response{ID: msg.ID, Code: mailbox.Failure}
		}
		hostPath, err := d.fsys.ViewEdit(sess)
		if err != nil {
			return mailbox.Response{ID: msg.ID, Code: errorToCode(err), Data: joinErr("", err)}
		}
		return mailbox.Response{ID: msg.ID, Data: hostPath, Code: mailbox.Success, Option: mailbox.OptionRead}

	case mailbox.OptionWrite:
		sess, ok := d.fsys.Sessions.Get(msg.PID)
		if !ok {
			return mailbox.Response{ID: msg.ID, Code: mailbox.Failure}
		}
		if err := d.fsys.FinishEdit(sess, true); err != nil {
			return mailbox.Response{ID: msg.ID, Code: errorToCode(err), Data: joinErr("", err)}
		}
		return mailbox.Response{ID: msg.ID, Code: mailbox.Success, Option: mailbox.OptionWrite}

	case mailbox.OptionExit:
		sess, ok := d.fsys.Sessions.Get(msg.PID)
		if !ok {
			return mailbox.Response{ID: msg.ID, Code: mailbox.Failure}
		}
		if err := d.fsys.FinishEdit(sess, false); err != nil {
			return mailbox.Response{ID: msg.ID, Code: errorToCode(err), Data: joinErr("", err)}
		}
		return mailbox.Response{ID: msg.ID, Code: mailbox.Success, Option: mailbox.OptionExit}
	}

	sess, ok := d.fsys.Sessions.Get(msg.PID)
	if !ok {
		return mailbox.Response{ID: msg.ID, Code: mailbox.Failure, Data: "no active session"}
	}

	args := strings.Fields(msg.Command)
	if len(args) == 0 {
		return mailbox.Response{ID: msg.ID, Code: mailbox.Failure, Data: "empty command"}
	}

	// "exit" ends the shell's session outright; it is dispatched by
	// command name rather than through the command table because it
	// needs to mutate the session table itself, not just the filesystem.
	if args[0] == "exit" {
		d.fsys.Sessions.Delete(msg.PID)
		return mailbox.Response{ID: msg.ID, Code: mailbox.Success}
	}

	// "rd" is dispatched by command name rather than through the command
	// table because its two-phase confirm protocol needs to read
	// msg.Option, which CommandFunc does not carry.
	if args[0] == "rd" {
		confirmed := msg.Option == mailbox.OptionResponse
		data, err := cmdRd(d.fsys, sess, args[1:], confirmed)
		if err != nil {
			return mailbox.Response{ID: msg.ID, Code: errorToCode(err), Data: joinErr("", err)}
		}
		return mailbox.Response{ID: msg.ID, Data: data, Code: mailbox.Success}
	}

	cmd, ok := d.commands[args[0]]
	if !ok {
		return mailbox.Response{ID: msg.ID, Code: mailbox.Failure, Data: "unknown command: " + args[0]}
	}

	data, err := cmd(d.fsys, sess, args[1:])
	if err != nil {
		return mailbox.Response{ID: msg.ID, Code: errorToCode(err), Data: joinErr("", err)}
	}
	return mailbox.Response{ID: msg.ID, Data: data, Code: mailbox.Success}
}

func errorToCode(err error) mailbox.Code {
	switch {
	case errors.Is(err, simdiskerrors.ErrExists):
		return mailbox.Exists
	case errors.Is(err, simdiskerrors.ErrExceeded), errors.Is(err, simdiskerrors.ErrFileTooLarge):
		return mailbox.Exceeded
	case errors.Is(err, simdiskerrors.ErrWaitRequest):
		return mailbox.WaitRequest
	case errors.Is(err, simdiskerrors.ErrFileNotFound):
		return mailbox.FileNotFound
	case errors.Is(err, simdiskerrors.ErrFileNotMatch), errors.Is(err, simdiskerrors.ErrNotADirectory), errors.Is(err, simdiskerrors.ErrIsADirectory):
		return mailbox.FileNotMatch
	case errors.Is(err, simdiskerrors.ErrPermissionDenied):
		return mailbox.PermissionDenied
	case errors.Is(err, simdiskerrors.ErrLocked):
		return mailbox.Locked
	default:
		return mailbox.Failure
	}
}

// completePrefix implements the `tab` completion helper: it splits the
// last path component off partial, resolves the rest as a directory, and
// returns every entry name there that starts with that prefix, appending
// "/" to directory matches, the same convention the reference tab/is_prefix
// pair uses. Matches are joined with a single space, matching the wire
// format the reference tab() response uses.
func completePrefix(fsys *fs.FileSystem, sess *session.Session, partial string) string {
	dirPath := "."
	prefix := partial
	if idx := strings.LastIndex(partial, "/"); idx >= 0 {
		dirPath = partial[:idx+1]
		prefix = partial[idx+1:]
	}
	names, err := fsys.List(sess, dirPath, false, false)
	if err != nil {
		return ""
	}
	var matches []string
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		full := dirPath
		if full != "" && full != "." && !strings.HasSuffix(full, "/") {
			full += "/"
		}
		if full == "." {
			full = ""
		}
		entryRec, _, err := fsys.Resolve(sess, full+name)
		if err == nil && entryRec.IsDirectory() {
			matches = append(matches, name+"/")
		} else {
			matches = append(matches, name)
		}
	}
	return strings.Join(matches, " ")
}
