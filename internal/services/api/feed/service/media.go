package service

import (
	"strings"

	"bazaar/internal/platform/config"
)

// MediaFile is the yaml layout of the media prefix file
//
//	base_url: https://cdn.example.com
//	collections:
//	  service_images: https://img.example.com/services
type MediaFile struct {
	BaseURL     string            `yaml:"base_url"`
	Collections map[string]string `yaml:"collections"`
}

// Media turns stored object keys into public URLs
type Media struct {
	base     string
	prefixes map[string]string
}

// NewMedia resolves every collection against base unless prefixes names it
func NewMedia(base string, prefixes map[string]string) *Media {
	m := &Media{base: strings.TrimRight(base, "/"), prefixes: make(map[string]string, len(prefixes))}
	for k, v := range prefixes {
		m.prefixes[k] = strings.TrimRight(v, "/")
	}
	return m
}

// LoadMedia reads a MediaFile; an empty path or base_url keeps fallback as the base
func LoadMedia(path, fallback string) (*Media, error) {
	if path == "" {
		return NewMedia(fallback, nil), nil
	}
	f, err := config.LoadYAML[MediaFile](path)
	if err != nil {
		return nil, err
	}
	if f.BaseURL == "" {
		f.BaseURL = fallback
	}
	return NewMedia(f.BaseURL, f.Collections), nil
}

// URL is base + "/" + key for the collection; empty keys stay empty
func (m *Media) URL(collection, key string) string {
	if key == "" {
		return ""
	}
	base, ok := m.prefixes[collection]
	if !ok {
		base = m.base
	}
	if base == "" {
		return key
	}
	return base + "/" + key
}
