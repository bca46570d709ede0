package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/phylo/pkg/pexp"
	"github.com/matzehuels/phylo/pkg/tree"
)

func TestToDOT_Basic(t *testing.T) {
	root := pexp.MustParse("(a,b):5", tree.Metric)

	dot, err := ToDOT(root, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		"digraph T",
		`n1 [label="a"`,
		`n2 [label="b"`,
		"n0 -> n1;",
		"n0 -> n2;",
		"shape=point",
		"{ rank=same; n1; n2; }",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Heights(t *testing.T) {
	root := pexp.MustParse("((a,b):2.5,c):7", tree.Metric)

	dot, err := ToDOT(root, Options{Heights: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `label="2.5"`) || !strings.Contains(dot, `label="7"`) {
		t.Errorf("ToDOT() missing height labels:\n%s", dot)
	}
}

func TestToDOT_Canonical(t *testing.T) {
	a, err := ToDOT(pexp.MustParse("((b,a):3,c):13", tree.Metric), Options{Heights: true})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ToDOT(pexp.MustParse("(c,(a,b):3):13", tree.Metric), Options{Heights: true})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("equal trees rendered differently:\n%s\n%s", a, b)
	}
}

func TestToDOT_Unweighted(t *testing.T) {
	dot, err := ToDOT(pexp.MustParse("((a,b),c)", tree.Unweighted), Options{Heights: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(dot, "rank=same") {
		t.Error("unweighted trees should not align leaves")
	}
	if !strings.Contains(dot, `label="2"`) {
		t.Errorf("root depth label missing:\n%s", dot)
	}
}

func TestToDOT_Invalid(t *testing.T) {
	if _, err := ToDOT(tree.Node{}, Options{}); !errors.Is(err, tree.ErrInvalidNode) {
		t.Errorf("err = %v, want ErrInvalidNode", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"dot", "svg", "pdf", "png"} {
		f, err := ParseFormat(s)
		if err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %v, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(gif) err = %v", err)
	}
	if got := FormatSVG.ContentType(); got != "image/svg+xml" {
		t.Errorf("ContentType = %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	root := pexp.MustParse("((a,b):3,c):13", tree.Metric)
	svg, err := Render(context.Background(), root, FormatSVG, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, ">a<") {
		t.Errorf("unexpected SVG output: %.200s", s)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should be unchanged, got %s", got)
	}
}
