package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"  Συναυλία   στο\n Ηρώδειο  ", "Συναυλία στο Ηρώδειο"},
		{"plain", "plain"},
		{"tabs\t\tand\nnewlines", "tabs and newlines"},
		{"", ""},
	}
	for _, c := range cases {
		got := CleanText(c.input)
		if got != c.expected {
			t.Fatalf("CleanText(%q) = %q, expected %q", c.input, got, c.expected)
		}
	}
}

func TestParagraphs(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div class="content">
			<p>Πρώτη   παράγραφος.</p>
			<p>   </p>
			<p>Δεύτερη <b>παράγραφος</b>.</p>
		</div>
	`))
	if err != nil {
		t.Fatal(err)
	}

	got := Paragraphs(doc.Find(".content p"))
	diff := cmp.Diff(
		[]string{"Πρώτη παράγραφος.", "Δεύτερη παράγραφος."},
		got,
	)
	if diff != "" {
		t.Fatal(diff)
	}
}
