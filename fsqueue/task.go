package fsqueue

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SubmissionInfo is fixed at submission time: {time, utc, hostname, fqdn,
// pid} are always present; a caller may merge in arbitrary extra fields
// (spec.md §9, "submission-info merging").
type SubmissionInfo map[string]Variant

const (
	submissionTimeKey     = "time"
	submissionUTCKey      = "utc"
	submissionHostnameKey = "hostname"
	submissionFQDNKey     = "fqdn"
	submissionPIDKey      = "pid"
)

// Task is one unit of work plus its metadata (spec.md §3). The derived
// filenames (Key, Instance) are computed, never stored.
type Task struct {
	TaskData       Variant
	SubmissionInfo SubmissionInfo
	// ExecutionInfo is optional; nil means absent.
	ExecutionInfo *Variant
	// DependsOn is optional; nil or empty means the task has no
	// prerequisites. A non-nil, non-empty slice means the task belongs in
	// locked/ until every dependency is done.
	DependsOn []Variant
}

// NewTask builds a task for taskData, with freshly-constructed submission
// info. overrides, if non-nil, is merged over the fixed fields (a later
// override key replaces the fixed value of the same name, matching the
// original's submission_info.update(submission_data)).
func NewTask(taskData Variant, overrides map[string]Variant, dependsOn []Variant) Task {
	info := constructSubmissionInfo()
	for k, v := range overrides {
		info[k] = v
	}
	return Task{
		TaskData:       taskData,
		SubmissionInfo: info,
		DependsOn:      dependsOn,
	}
}

func constructSubmissionInfo() SubmissionInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}
	return SubmissionInfo{
		submissionTimeKey:     Float(float64(time.Now().UnixNano()) / 1e9),
		submissionUTCKey:      String(time.Now().UTC().Format("20060102-150405")),
		submissionHostnameKey: String(hostname),
		submissionFQDNKey:     String(fqdn(hostname)),
		submissionPIDKey:      Int(int64(os.Getpid())),
	}
}

// fqdn makes a best effort to resolve hostname to a fully-qualified domain
// name, falling back to hostname itself on any failure - the same
// best-effort contract as Python's socket.getfqdn().
func fqdn(hostname string) string {
	if hostname == "" {
		return hostname
	}
	addrs, err := net.LookupHost(hostname)
	if err != nil || len(addrs) == 0 {
		return hostname
	}
	names, err := net.LookupAddr(addrs[0])
	if err != nil || len(names) == 0 {
		return hostname
	}
	name := names[0]
	for len(name) > 0 && name[len(name)-1] == '.' {
		name = name[:len(name)-1]
	}
	if name == "" {
		return hostname
	}
	return name
}

// toGo converts SubmissionInfo to a plain map for canonical
// serialization.
func (s SubmissionInfo) toGo() map[string]interface{} {
	out := make(map[string]interface{}, len(s))
	for k, v := range s {
		out[k] = v.ToGo()
	}
	return out
}

func (s SubmissionInfo) timeSeconds() (float64, error) {
	v, ok := s[submissionTimeKey]
	if !ok || v.Kind() != KindFloat {
		return 0, fmt.Errorf("fsqueue: submission_info missing numeric %q", submissionTimeKey)
	}
	return v.f, nil
}

func (s SubmissionInfo) utc() (string, error) {
	v, ok := s[submissionUTCKey]
	if !ok || v.Kind() != KindString {
		return "", fmt.Errorf("fsqueue: submission_info missing string %q", submissionUTCKey)
	}
	return v.s, nil
}

// canonicalYAML marshals v (a plain Go value, as from Variant.ToGo) into the
// document serializer's stable form: sorted map keys, block style, default
// scalar style. gopkg.in/yaml.v3 provides exactly this for Marshal of plain
// maps/slices/scalars, which is why it is used here instead of encoding/json
// (whose formatting is not the wire format spec.md names, and which has no
// stdlib equivalent serializer with YAML's block style in the first place).
func canonicalYAML(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func sha224Hex8(data []byte) string {
	sum := sha256.Sum224(data)
	return hex.EncodeToString(sum[:])[:8]
}

// Serialize emits the on-disk document body: submission_info, task_data,
// execution_info, depends_on, with stable (alphabetically sorted) key order
// at every level, block style, no type tags - see spec.md §6.
func (t Task) Serialize() ([]byte, error) {
	doc := map[string]interface{}{
		"submission_info": t.SubmissionInfo.toGo(),
		"task_data":       t.TaskData.ToGo(),
	}
	if t.ExecutionInfo != nil {
		doc["execution_info"] = t.ExecutionInfo.ToGo()
	} else {
		doc["execution_info"] = nil
	}
	if len(t.DependsOn) > 0 {
		deps := make([]interface{}, len(t.DependsOn))
		for i, d := range t.DependsOn {
			deps[i] = d.ToGo()
		}
		doc["depends_on"] = deps
	} else {
		doc["depends_on"] = nil
	}
	return canonicalYAML(doc)
}

// Deserialize parses a task document. Per spec.md §4.1, a parse failure or
// an empty body means a concurrent worker emptied the file between the
// directory listing and this read - that is reported as ErrTaskStolen, not
// as a parse error, since it is an expected race rather than a corruption.
func Deserialize(data []byte) (Task, error) {
	if len(data) == 0 {
		return Task{}, ErrTaskStolen
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Task{}, ErrTaskStolen
	}
	if raw == nil {
		return Task{}, ErrTaskStolen
	}

	taskData, err := FromGo(raw["task_data"])
	if err != nil {
		return Task{}, fmt.Errorf("fsqueue: decoding task_data: %w", err)
	}

	info, err := decodeSubmissionInfo(raw["submission_info"])
	if err != nil {
		return Task{}, fmt.Errorf("fsqueue: decoding submission_info: %w", err)
	}

	var execInfo *Variant
	if ei, ok := raw["execution_info"]; ok && ei != nil {
		v, err := FromGo(ei)
		if err != nil {
			return Task{}, fmt.Errorf("fsqueue: decoding execution_info: %w", err)
		}
		execInfo = &v
	}

	var dependsOn []Variant
	if do, ok := raw["depends_on"]; ok && do != nil {
		seq, ok := do.([]interface{})
		if !ok {
			return Task{}, fmt.Errorf("fsqueue: depends_on is not a sequence")
		}
		dependsOn = make([]Variant, len(seq))
		for i, e := range seq {
			v, err := FromGo(e)
			if err != nil {
				return Task{}, fmt.Errorf("fsqueue: decoding depends_on[%d]: %w", i, err)
			}
			dependsOn[i] = v
		}
	}

	return Task{
		TaskData:       taskData,
		SubmissionInfo: info,
		ExecutionInfo:  execInfo,
		DependsOn:      dependsOn,
	}, nil
}

func decodeSubmissionInfo(raw interface{}) (SubmissionInfo, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("submission_info is not a mapping")
	}
	info := make(SubmissionInfo, len(m))
	for k, v := range m {
		cv, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		info[k] = cv
	}
	return info, nil
}

// KeyFilename is the deduplication handle: the first 8 hex characters of
// SHA-224 of the canonical serialization of task_data alone.
func (t Task) KeyFilename() (string, error) {
	b, err := canonicalYAML(t.TaskData.ToGo())
	if err != nil {
		return "", err
	}
	return sha224Hex8(b), nil
}

// InstanceFilename is key + submission time + UTC string + a hash of the
// merged submission_info, per the grammar in spec.md §6.
func (t Task) InstanceFilename() (string, error) {
	key, err := t.KeyFilename()
	if err != nil {
		return "", err
	}
	secs, err := t.SubmissionInfo.timeSeconds()
	if err != nil {
		return "", err
	}
	utc, err := t.SubmissionInfo.utc()
	if err != nil {
		return "", err
	}
	infoBytes, err := canonicalYAML(t.SubmissionInfo.toGo())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%s_%s", key, formatSubmissionTime(secs), utc, sha224Hex8(infoBytes)), nil
}

// formatSubmissionTime mirrors Python's "%.14lg" formatting of the
// submission timestamp - Go's fmt implements %g precision identically (the
// maximum number of significant digits), so this is a direct translation.
func formatSubmissionTime(secs float64) string {
	return fmt.Sprintf("%.14g", secs)
}
