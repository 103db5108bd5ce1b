package extract

import "testing"

func TestTextPlainPassthrough(t *testing.T) {
	got, err := Text("text/plain; charset=utf-8", []byte("hello paragraph"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello paragraph" {
		t.Fatalf("got %q", got)
	}
}

func TestTextUnsupportedType(t *testing.T) {
	if _, err := Text("image/png", []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestTextBrokenPDF(t *testing.T) {
	if _, err := Text("application/pdf", []byte("not a pdf")); err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"application/pdf":           true,
		"APPLICATION/PDF":           true,
		"text/plain; charset=utf-8": true,
		"text/markdown":             true,
		"application/msword":        false,
	}
	for mime, want := range cases {
		if got := Supported(mime); got != want {
			t.Errorf("Supported(%q) = %v, want %v", mime, got, want)
		}
	}
}
