package app

import (
	"bytes"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// toUTF8 converts a document body to UTF-8 using the Content-Type charset,
// a <meta> declaration or a BOM, in that order. Undecodable bodies are
// returned unchanged.
func toUTF8(body []byte, contentType string) []byte {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		log.Debug().Err(err).Str("content_type", contentType).Msg("charset detection failed; using raw body")
		return body
	}
	out, err := io.ReadAll(r)
	if err != nil {
		log.Debug().Err(err).Msg("charset decode failed; using raw body")
		return body
	}
	return out
}
