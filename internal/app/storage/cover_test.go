package storage

import (
	"testing"

	"buzzportal/internal/pkg/errs"
)

func TestCoverValidate(t *testing.T) {
	cases := map[string]struct {
		cover Cover
		code  int
	}{
		"jpeg":              {cover: Cover{Name: "fest.JPG", MimeType: "image/jpeg", Size: 1024}},
		"png with params":   {cover: Cover{Name: "fest.png", MimeType: "image/png; charset=binary", Size: 1024}},
		"empty":             {cover: Cover{Name: "fest.png", MimeType: "image/png"}, code: errs.ErrInvalidParams},
		"too large":         {cover: Cover{Name: "fest.png", MimeType: "image/png", Size: MaxCoverSize + 1}, code: errs.ErrCoverTooLarge},
		"pdf":               {cover: Cover{Name: "fest.pdf", MimeType: "application/pdf", Size: 10}, code: errs.ErrCoverTypeInvalid},
		"mismatched mime":   {cover: Cover{Name: "fest.png", MimeType: "image/gif", Size: 10}, code: errs.ErrCoverTypeInvalid},
		"missing extension": {cover: Cover{Name: "fest", MimeType: "image/png", Size: 10}, code: errs.ErrCoverTypeInvalid},
	}

	for name, tc := range cases {
		err := tc.cover.Validate()
		if tc.code == 0 {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", name, err)
			}
			continue
		}
		if err == nil || err.Code != tc.code {
			t.Fatalf("%s: expected code %d, got %v", name, tc.code, err)
		}
	}
}

func TestCoverTooLargeMessage(t *testing.T) {
	err := Cover{Name: "a.png", MimeType: "image/png", Size: MaxCoverSize + 1}.Validate()
	if err == nil || err.Message != "Cover image is too large (max 5 MB)." {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	if got := PublicURL("https://cdn.example.edu/", "/covers/a.png"); got != "https://cdn.example.edu/covers/a.png" {
		t.Fatalf("unexpected URL %s", got)
	}
}
