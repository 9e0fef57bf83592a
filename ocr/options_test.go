package ocr

import "testing"

func TestInputOptions(t *testing.T) {
	in := Input{}
	WithSegMode(SegUniformBlock)(&in)
	if in.PageSegMode != SegUniformBlock {
		t.Fatalf("seg mode = %d, want %d", in.PageSegMode, SegUniformBlock)
	}
	WithWhitelist("ABC")(&in)
	if got := in.Metadata["tessedit_char_whitelist"]; got != "ABC" {
		t.Fatalf("expected whitelist to be set, got %q", got)
	}
	WithDPI(300)(&in)
	if in.DPI != 300 {
		t.Fatalf("dpi = %d", in.DPI)
	}
}

func TestWithMetadataCopies(t *testing.T) {
	meta := map[string]string{"tessedit_char_blacklist": "#"}
	in := Input{}
	WithMetadata(meta)(&in)
	meta["tessedit_char_blacklist"] = "@"
	if in.Metadata["tessedit_char_blacklist"] != "#" {
		t.Fatalf("metadata was not copied: %+v", in.Metadata)
	}
}

func TestDefaultSegModesOrder(t *testing.T) {
	want := []SegMode{SegAuto, SegUniformBlock, SegSparse, SegSingleColumn}
	got := DefaultSegModes()
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mode[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
