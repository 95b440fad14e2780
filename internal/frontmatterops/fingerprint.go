// Package frontmatterops holds the front-matter bookkeeping the fixer performs:
// content fingerprints and the `updated` timestamp they drive.
package frontmatterops

import (
	"errors"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdxcheck/internal/content"
)

// FingerprintField is the front-matter key holding the content fingerprint.
const FingerprintField = mdfp.FingerprintField

// ComputeFingerprint computes the canonical content fingerprint of a document.
//
// The fingerprint and updated keys are excluded so that stamping them does not
// change the hash. Fields are serialized as YAML with sorted keys and LF
// newlines, and a single trailing newline is trimmed before hashing.
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == FingerprintField || k == content.FieldUpdated {
			continue
		}
		forHash[k] = v
	}

	fm := ""
	if len(forHash) > 0 {
		serialized, err := yaml.Marshal(forHash)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}

// Stamp lists the keys the fixer writes back for one document.
type Stamp struct {
	Fingerprint string
	// Updated is set when the content changed since the stored fingerprint.
	Updated *int64
	// Changed reports whether any key differs from what is stored.
	Changed bool
}

// Values returns the keys to write, suitable for frontmatter.SetKeys.
func (s Stamp) Values() map[string]any {
	values := map[string]any{FingerprintField: s.Fingerprint}
	if s.Updated != nil {
		values[content.FieldUpdated] = *s.Updated
	}
	return values
}

// ComputeStamp decides how a document's bookkeeping keys must change.
//
// A document without a stored fingerprint only gets one stamped; there is no
// previous state to compare against. When the stored fingerprint differs, the
// content was edited and updated is set to now in epoch milliseconds. The new
// value never precedes published or the current updated value. published is
// never touched.
func ComputeStamp(fields map[string]any, body []byte, now time.Time) (Stamp, error) {
	fp, err := ComputeFingerprint(fields, body)
	if err != nil {
		return Stamp{}, err
	}

	stored, _ := fields[FingerprintField].(string)
	stored = strings.TrimSpace(stored)

	stamp := Stamp{Fingerprint: fp}
	switch {
	case stored == "":
		stamp.Changed = true
	case stored != fp:
		updated := now.UnixMilli()
		if published, err := content.EpochMillis(fields[content.FieldPublished]); err == nil && published > updated {
			updated = published
		}
		if current, err := content.EpochMillis(fields[content.FieldUpdated]); err == nil && current > updated {
			updated = current
		}
		stamp.Updated = &updated
		stamp.Changed = true
	}
	return stamp, nil
}
