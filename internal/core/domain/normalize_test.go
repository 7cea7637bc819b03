package domain

import "testing"

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"shop.com", "shop.com"},
		{"  shop.com  ", "shop.com"},
		{"SHOP.COM", "shop.com"},
		{"www.shop.com", "shop.com"},
		{"http://shop.com", "shop.com"},
		{"https://www.Shop.com/abc", "shop.com"},
		{"shop.com:443", "shop.com"},
		{"https://shop.com:8443/path?q=1", "shop.com"},
		{"shop.com/", "shop.com"},
		{"", ""},
		{"   ", ""},
		{"https://", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDomain(tc.in); got != tc.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDomainIdempotent(t *testing.T) {
	inputs := []string{"https://www.Shop.com/abc", "shop.com:443", "www.example.co.uk/path"}
	for _, in := range inputs {
		once := NormalizeDomain(in)
		if twice := NormalizeDomain(once); twice != once {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
