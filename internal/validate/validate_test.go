package validate

import "testing"

func TestQty(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  int
	}{
		{"3", 10, 3},
		{"0", 10, 1},
		{"-4", 10, 1},
		{"abc", 10, 1},
		{"99", 10, 10},
		{"99", 0, 99},
	}
	for _, tt := range tests {
		if got := Qty(tt.in, tt.limit); got != tt.want {
			t.Errorf("Qty(%q, %d) = %d, want %d", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestSetQty(t *testing.T) {
	if n, ok := SetQty("0"); !ok || n != 0 {
		t.Fatalf("zero must be accepted, got %d %v", n, ok)
	}
	for _, bad := range []string{"-1", "x", "1000"} {
		if _, ok := SetQty(bad); ok {
			t.Errorf("SetQty(%q) accepted", bad)
		}
	}
}

func TestQ(t *testing.T) {
	if q, ok := Q("  Home & Garden "); !ok || q != "Home & Garden" {
		t.Fatalf("got %q %v", q, ok)
	}
	if _, ok := Q("<script>"); ok {
		t.Fatal("markup must be rejected")
	}
	if _, ok := Q("   "); ok {
		t.Fatal("blank must be rejected")
	}
}

func TestCategory(t *testing.T) {
	known := []string{"Books", "Sports"}
	if _, ok := Category("Books", known); !ok {
		t.Fatal("known category rejected")
	}
	if _, ok := Category("books", known); ok {
		t.Fatal("category match must be exact")
	}
}

func TestIDAndEmail(t *testing.T) {
	if _, ok := ID("12"); !ok {
		t.Fatal("numeric id rejected")
	}
	if _, ok := ID("../etc"); ok {
		t.Fatal("path id accepted")
	}
	if _, ok := Email("test@contoso.com"); !ok {
		t.Fatal("demo email rejected")
	}
	if _, ok := Email("nope"); ok {
		t.Fatal("bad email accepted")
	}
}

func TestField(t *testing.T) {
	if got := Field("  abcdef ", 3); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if Page("0") != 1 || Page("3") != 3 {
		t.Fatal("page parsing")
	}
}
