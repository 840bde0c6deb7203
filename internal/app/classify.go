package app

import (
	"net/url"
	"regexp"
	"strings"

	"app_reviews/internal/domain"
)

const (
	playHost  = "play.google.com"
	appleHost = "apps.apple.com"
)

var (
	playIDRe       = regexp.MustCompile(`[?&]id=([a-zA-Z0-9._]+)`)
	playCountryRe  = regexp.MustCompile(`[?&]gl=([a-zA-Z]{2})(?:&|#|$)`)
	appleIDRe      = regexp.MustCompile(`/id(\d+)`)
	appleCountryRe = regexp.MustCompile(`/([a-zA-Z]{2})/app/`)
	appleNameRe    = regexp.MustCompile(`/app/([^/?#]+)/id\d+`)
)

// Classifier turns a store URL into an AppReference. It never panics on
// malformed input; every failure is one of the domain classification errors.
type Classifier struct {
	DefaultCountry string
}

func NewClassifier(defaultCountry string) Classifier {
	if defaultCountry == "" {
		defaultCountry = "br"
	}
	return Classifier{DefaultCountry: strings.ToLower(defaultCountry)}
}

func (c Classifier) Classify(raw string) (domain.AppReference, error) {
	s := strings.TrimSpace(raw)
	low := strings.ToLower(s)
	switch {
	case strings.Contains(low, playHost):
		return c.classifyPlay(s)
	case strings.Contains(low, appleHost):
		return c.classifyApple(s)
	default:
		return domain.AppReference{}, domain.ErrUnknownMarketplace
	}
}

func (c Classifier) classifyPlay(s string) (domain.AppReference, error) {
	m := playIDRe.FindStringSubmatch(s)
	if m == nil {
		return domain.AppReference{}, domain.ErrMissingAppID
	}
	ref := domain.AppReference{Marketplace: domain.PlayStore, AppID: m[1], Country: c.DefaultCountry}
	if gl := playCountryRe.FindStringSubmatch(s); gl != nil {
		ref.Country = strings.ToLower(gl[1])
	}
	return ref, nil
}

func (c Classifier) classifyApple(s string) (domain.AppReference, error) {
	m := appleIDRe.FindStringSubmatch(s)
	if m == nil {
		return domain.AppReference{}, domain.ErrMissingAppID
	}
	ref := domain.AppReference{Marketplace: domain.AppStore, AppID: m[1], Country: c.DefaultCountry}
	if cc := appleCountryRe.FindStringSubmatch(s); cc != nil {
		ref.Country = strings.ToLower(cc[1])
	}

	n := appleNameRe.FindStringSubmatch(s)
	if n == nil {
		return domain.AppReference{}, domain.ErrMissingAppName
	}
	slug := n[1]
	if dec, err := url.PathUnescape(slug); err == nil {
		slug = dec
	}
	name := strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
	if name == "" {
		return domain.AppReference{}, domain.ErrMissingAppName
	}
	ref.AppName = name
	return ref, nil
}
