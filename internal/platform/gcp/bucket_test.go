package gcp

import "testing"

func TestObjectRefRoundTrip(t *testing.T) {
	ref := ObjectRef("sp-audio", "/users/abc/answer.webm")
	if ref != "gs://sp-audio/users/abc/answer.webm" {
		t.Fatalf("ObjectRef: got=%s", ref)
	}
	bucket, key, err := ParseObjectRef(ref)
	if err != nil {
		t.Fatalf("ParseObjectRef: %v", err)
	}
	if bucket != "sp-audio" || key != "users/abc/answer.webm" {
		t.Fatalf("ParseObjectRef: got bucket=%s key=%s", bucket, key)
	}
}

func TestParseObjectRefRejectsMalformed(t *testing.T) {
	for _, ref := range []string{"", "s3://b/k", "gs://", "gs://bucket", "gs://bucket/"} {
		if _, _, err := ParseObjectRef(ref); err == nil {
			t.Fatalf("ParseObjectRef(%q): want error", ref)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"a.webm":  "audio/webm",
		"a.WAV":   "audio/wav",
		"a.mp3":   "audio/mpeg",
		"a.bin":   "application/octet-stream",
		"a.ogg?x": "audio/ogg",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("contentTypeForKey(%s): want=%s got=%s", key, want, got)
		}
	}
}
