package gcs

import "testing"

func TestParseGCSPath(t *testing.T) {
	tests := []struct {
		in      string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{in: "gs://extracts/metadata/runs", bucket: "extracts", prefix: "metadata/runs"},
		{in: "gs://extracts", bucket: "extracts", prefix: ""},
		{in: "gs://extracts/", bucket: "extracts", prefix: ""},
		{in: "s3://extracts/metadata", wantErr: true},
		{in: "gs:///metadata", wantErr: true},
	}
	for _, tc := range tests {
		bucket, prefix, err := parseGCSPath(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseGCSPath(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseGCSPath(%q): %v", tc.in, err)
			continue
		}
		if bucket != tc.bucket || prefix != tc.prefix {
			t.Errorf("parseGCSPath(%q) = %q, %q; want %q, %q", tc.in, bucket, prefix, tc.bucket, tc.prefix)
		}
	}
}

func TestJoinKey(t *testing.T) {
	if got := joinKey("metadata/runs/", "abc-123", "columns.csv"); got != "metadata/runs/abc-123/columns.csv" {
		t.Errorf("joinKey = %q", got)
	}
	if got := joinKey("", "abc-123", "columns.csv"); got != "abc-123/columns.csv" {
		t.Errorf("joinKey with empty prefix = %q", got)
	}
}
