package details

import "testing"

func TestParse_PrefersOpenGraph(t *testing.T) {
	html := `<!doctype html>
	<html><head>
		<title>Fallback title</title>
		<meta property="og:title" content="Oh Joy Strips">
		<meta property="og:description" content="Weekly comic">
		<meta property="og:image" content="/covers/42.jpg">
		<meta property="og:site_name" content="Strips">
		<meta name="author" content="A. Artist">
		<meta name="description" content="meta description">
	</head><body><img src="/first.jpg"></body></html>`

	d, err := Parse([]byte(html), "https://strips.example.com/42/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Title != "Oh Joy Strips" || d.Description != "Weekly comic" || d.SiteName != "Strips" {
		t.Fatalf("unexpected details %+v", d)
	}
	if d.Author != "A. Artist" {
		t.Fatalf("author = %q", d.Author)
	}
	if d.Thumbnail != "https://strips.example.com/covers/42.jpg" {
		t.Fatalf("thumbnail = %q", d.Thumbnail)
	}
	if d.URL != "https://strips.example.com/42/" {
		t.Fatalf("url = %q", d.URL)
	}
}

func TestParse_Fallbacks(t *testing.T) {
	html := `<html><head>
		<title> Page Title </title>
		<meta name="description" content="plain description">
	</head><body><p>x</p><img src="img/cover.png"><img src="img/second.png"></body></html>`

	d, err := Parse([]byte(html), "https://strips.example.com/series/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Title != "Page Title" {
		t.Fatalf("title = %q", d.Title)
	}
	if d.Description != "plain description" {
		t.Fatalf("description = %q", d.Description)
	}
	if d.Thumbnail != "https://strips.example.com/series/img/cover.png" {
		t.Fatalf("thumbnail = %q", d.Thumbnail)
	}
	if d.Author != "" {
		t.Fatalf("author should be empty, got %q", d.Author)
	}
}

func TestParse_MetaTitleBeforeDocumentTitle(t *testing.T) {
	html := `<html><head><title>doc</title><meta name="title" content="meta title">
		<meta name="image" content="https://cdn.example.net/c.jpg"></head><body></body></html>`
	d, err := Parse([]byte(html), "https://strips.example.com/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Title != "meta title" || d.Thumbnail != "https://cdn.example.net/c.jpg" {
		t.Fatalf("unexpected details %+v", d)
	}
}
