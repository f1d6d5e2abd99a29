package source

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		query string
		ok    bool
	}{
		{"example.com", true},
		{"https://www.example.com/comic/page-1?x=2", true},
		{"http://sub-domain.example.co.uk/a", true},
		{"ftp://example.com", false},
		{"example", false},
		{"example.c", false},
		{"example.toolong", false},
		{"example.com/with space", false},
		{"one piece", false},
		{"", false},
	}
	for _, tc := range cases {
		err := Validate(tc.query)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.query, err)
		}
		if !tc.ok && !errors.Is(err, ErrNotURL) {
			t.Fatalf("%q: expected ErrNotURL, got %v", tc.query, err)
		}
	}
}

func TestSearch(t *testing.T) {
	e, err := Search("example.com/comic")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := Entry{Title: PlaceholderTitle, URL: "http://example.com/comic", Chapters: "http://example.com/comic"}
	if e != want {
		t.Fatalf("entry = %+v, want %+v", e, want)
	}
	e, _ = Search("https://example.com/comic")
	if e.URL != "https://example.com/comic" {
		t.Fatalf("scheme should be kept, got %q", e.URL)
	}
	if _, err := Search("not a url"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestChapters_NewestFirst(t *testing.T) {
	got := Chapters("https://a.example/1, https://a.example/2 ,https://a.example/3")
	want := []Chapter{
		{Name: "Chapter 3", URL: "https://a.example/3"},
		{Name: "Chapter 2", URL: "https://a.example/2"},
		{Name: "Chapter 1", URL: "https://a.example/1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("chapters = %+v, want %+v", got, want)
	}
	if len(Chapters("")) != 0 {
		t.Fatalf("expected no chapters for empty storage")
	}
}
