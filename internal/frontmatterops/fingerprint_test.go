package frontmatterops

import (
	"testing"
	"time"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"
)

func TestComputeFingerprint(t *testing.T) {
	t.Run("excludes fingerprint and updated", func(t *testing.T) {
		body := []byte("hello\n")

		bare, err := ComputeFingerprint(map[string]any{"title": "Test"}, body)
		require.NoError(t, err)

		stamped, err := ComputeFingerprint(map[string]any{
			"title":       "Test",
			"fingerprint": "should-be-ignored",
			"updated":     1736718332156,
		}, body)
		require.NoError(t, err)
		require.Equal(t, bare, stamped)

		require.Equal(t, mdfp.CalculateFingerprintFromParts("title: Test", string(body)), bare)
	})

	t.Run("stable across map insertion order", func(t *testing.T) {
		a := map[string]any{}
		a["title"] = "Test"
		a["published"] = 10
		b := map[string]any{}
		b["published"] = 10
		b["title"] = "Test"

		fpA, err := ComputeFingerprint(a, []byte("x"))
		require.NoError(t, err)
		fpB, err := ComputeFingerprint(b, []byte("x"))
		require.NoError(t, err)
		require.Equal(t, fpA, fpB)
	})

	t.Run("body changes the fingerprint", func(t *testing.T) {
		fields := map[string]any{"title": "Test"}
		a, err := ComputeFingerprint(fields, []byte("one"))
		require.NoError(t, err)
		b, err := ComputeFingerprint(fields, []byte("two"))
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("nil fields", func(t *testing.T) {
		_, err := ComputeFingerprint(nil, nil)
		require.Error(t, err)
	})
}

func TestComputeStamp(t *testing.T) {
	const published = int64(1662221036776)
	now := time.UnixMilli(1736718332156)
	body := []byte("body\n")

	base := func() map[string]any {
		return map[string]any{"title": "X", "published": published}
	}

	t.Run("no stored fingerprint stamps only the fingerprint", func(t *testing.T) {
		stamp, err := ComputeStamp(base(), body, now)
		require.NoError(t, err)
		require.True(t, stamp.Changed)
		require.Nil(t, stamp.Updated)
		require.Equal(t, map[string]any{FingerprintField: stamp.Fingerprint}, stamp.Values())
	})

	t.Run("matching fingerprint is a no-op", func(t *testing.T) {
		fields := base()
		fp, err := ComputeFingerprint(fields, body)
		require.NoError(t, err)
		fields[FingerprintField] = fp

		stamp, err := ComputeStamp(fields, body, now)
		require.NoError(t, err)
		require.False(t, stamp.Changed)
		require.Nil(t, stamp.Updated)
	})

	t.Run("changed content bumps updated", func(t *testing.T) {
		fields := base()
		fields[FingerprintField] = "stale"

		stamp, err := ComputeStamp(fields, body, now)
		require.NoError(t, err)
		require.True(t, stamp.Changed)
		require.NotNil(t, stamp.Updated)
		require.Equal(t, now.UnixMilli(), *stamp.Updated)
		require.Equal(t, now.UnixMilli(), stamp.Values()["updated"])
		require.NotContains(t, stamp.Values(), "published")
	})

	t.Run("updated never precedes published", func(t *testing.T) {
		fields := base()
		fields[FingerprintField] = "stale"

		stamp, err := ComputeStamp(fields, body, time.UnixMilli(published-1000))
		require.NoError(t, err)
		require.Equal(t, published, *stamp.Updated)
	})

	t.Run("updated never moves backwards", func(t *testing.T) {
		fields := base()
		fields[FingerprintField] = "stale"
		fields["updated"] = now.UnixMilli() + 5000

		stamp, err := ComputeStamp(fields, body, now)
		require.NoError(t, err)
		require.Equal(t, now.UnixMilli()+5000, *stamp.Updated)
	})
}
