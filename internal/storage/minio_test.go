package storage

import "testing"

func TestListPrefixKeepsTrailingSlash(t *testing.T) {
	cases := []struct {
		root, prefix, want string
	}{
		{"indexes", "postings_body/", "indexes/postings_body/"},
		{"indexes", "postings_body", "indexes/postings_body"},
		{"", "postings_body/", "postings_body/"},
		{"indexes", "", "indexes"},
	}
	for _, c := range cases {
		if got := listPrefix(c.root, c.prefix); got != c.want {
			t.Errorf("listPrefix(%q, %q) = %q, want %q", c.root, c.prefix, got, c.want)
		}
	}
}
