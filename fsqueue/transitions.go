package fsqueue

import (
	"os"
	"path"
)

// isNotExist reports whether err indicates a missing path, whether it came
// from fsys.OSFS (a *os.PathError wrapping a real syscall error) or
// fsys.MemFS (a *os.PathError wrapping os.ErrNotExist directly).
func isNotExist(err error) bool {
	return err != nil && os.IsNotExist(err)
}

// readTask loads and parses the task stored at state/name.
func (q *Queue) readTask(state State, name string) (Task, error) {
	data, err := q.fs.ReadFile(path.Join(q.queueDir(state), name))
	if err != nil {
		if isNotExist(err) {
			return Task{}, ErrTaskStolen
		}
		return Task{}, err
	}
	return Deserialize(data)
}

// writeTask serializes task and writes it to state/name, verifying I4
// self-consistency: reading it back must recompute the same instance
// filename. On mismatch, both versions are stashed in conflict/ and an
// InconsistentStorageError is returned - the only fatal error class.
func (q *Queue) writeTask(state State, name string, task Task) error {
	data, err := task.Serialize()
	if err != nil {
		return err
	}
	dst := path.Join(q.queueDir(state), name)
	if err := q.fs.WriteFile(dst, data); err != nil {
		return err
	}

	recovered, err := q.readTask(state, name)
	if err != nil {
		return err
	}
	recoveredName, err := recovered.InstanceFilename()
	if err != nil {
		return err
	}
	if recoveredName == name {
		return nil
	}

	conflictOriginal := path.Join(q.queueDir(stateConflict), "put_original_"+name)
	conflictRecovered := path.Join(q.queueDir(stateConflict), "put_recovered_"+name)
	q.fs.WriteFile(conflictOriginal, data)
	recoveredData, _ := recovered.Serialize()
	q.fs.WriteFile(conflictRecovered, recoveredData)

	q.log.Error().
		Str("stored", name).
		Str("recovered", recoveredName).
		Msg("inconsistent storage: recomputed instance filename does not match stored filename")

	return newInconsistentStorage(
		"recomputed instance filename does not match the name it was stored under",
		conflictOriginal, conflictRecovered,
	)
}

// removeRaw unlinks state/name. If the file is already gone, ok reports
// false but err is nil - callers decide whether a missing file means
// "stolen" (removing one's own current task) or is fine to ignore (move's
// best-effort cleanup, spec.md §4.3 F2).
func (q *Queue) removeRaw(state State, name string) (ok bool, err error) {
	err = q.fs.Remove(path.Join(q.queueDir(state), name))
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}

// copyRaw reads state `from` and writes the same bytes, unchanged, to
// `to`, without touching the source.
func (q *Queue) copyRaw(from, to State, name string) error {
	data, err := q.fs.ReadFile(path.Join(q.queueDir(from), name))
	if err != nil {
		return err
	}
	return q.fs.WriteFile(path.Join(q.queueDir(to), name), data)
}

// moveRaw relocates a file between state directories without altering its
// contents: copy, then remove the source. If the source has already
// vanished (another worker moved it first), the removal's "not found" is
// logged and absorbed - spec.md §4.3 F2 accepts the resulting duplicate as
// harmless, since the document's content didn't change.
func (q *Queue) moveRaw(from, to State, name string) error {
	if err := q.copyRaw(from, to, name); err != nil {
		if isNotExist(err) {
			return ErrTaskStolen
		}
		return err
	}
	ok, err := q.removeRaw(from, name)
	if err != nil {
		return err
	}
	if !ok {
		q.log.Debug().Str("task", name).Str("from", string(from)).
			Msg("source vanished during move; accepting possible duplicate")
	}
	return nil
}

// claim atomically moves name from `from` to `to`, used for the one
// claim-style transition in the protocol: Get moving waiting/ -> running/.
// It prefers a single rename (POSIX-atomic on a shared device, spec.md
// §4.3) and falls back to copy-then-remove when Rename reports the paths
// are not on the same device.
func (q *Queue) claim(from, to State, name string) error {
	err := q.fs.Rename(path.Join(q.queueDir(from), name), path.Join(q.queueDir(to), name))
	if err == nil {
		return nil
	}
	if isNotExist(err) {
		return ErrTaskStolen
	}
	if !isCrossDevice(err) {
		return err
	}
	return q.claimByCopy(from, to, name)
}

func (q *Queue) claimByCopy(from, to State, name string) error {
	data, err := q.fs.ReadFile(path.Join(q.queueDir(from), name))
	if err != nil {
		if isNotExist(err) {
			return ErrTaskStolen
		}
		return err
	}
	if err := q.fs.WriteFile(path.Join(q.queueDir(to), name), data); err != nil {
		return err
	}
	ok, err := q.removeRaw(from, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskStolen
	}
	return nil
}
