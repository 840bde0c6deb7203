package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app_reviews/internal/app"
	"app_reviews/internal/domain"
)

func TestClassify_PlayStore(t *testing.T) {
	c := app.NewClassifier("br")

	ref, err := c.Classify("https://play.google.com/store/apps/details?id=com.example.app")
	require.NoError(t, err)
	assert.Equal(t, domain.AppReference{Marketplace: domain.PlayStore, AppID: "com.example.app", Country: "br"}, ref)

	ref, err = c.Classify("https://play.google.com/store/apps/details?hl=en&id=com.nu_bank.app&gl=US")
	require.NoError(t, err)
	assert.Equal(t, "com.nu_bank.app", ref.AppID)
	assert.Equal(t, "us", ref.Country)
	assert.Empty(t, ref.AppName)
}

func TestClassify_PlayStoreWithoutID(t *testing.T) {
	c := app.NewClassifier("br")
	for _, u := range []string{
		"https://play.google.com/store/apps",
		"https://play.google.com/store/apps/details?xid=com.example",
		"https://play.google.com/store/apps/details?id=",
		"play.google.com",
		"https://play.google.com/store/apps/details?hl=pt&gl=br",
	} {
		_, err := c.Classify(u)
		assert.ErrorIs(t, err, domain.ErrMissingAppID, u)
	}
}

func TestClassify_UnknownMarketplace(t *testing.T) {
	c := app.NewClassifier("br")
	for _, u := range []string{
		"",
		"   ",
		"https://example.com/?id=com.example.app",
		"https://www.amazon.com/dp/B00X",
		"not a url at all %%%",
		"https://apps.apple.co/br/app/x/id1",
	} {
		_, err := c.Classify(u)
		assert.ErrorIs(t, err, domain.ErrUnknownMarketplace, u)
	}
}

func TestClassify_AppStore(t *testing.T) {
	c := app.NewClassifier("br")

	ref, err := c.Classify("https://apps.apple.com/us/app/nubank-conta-e-cartao/id814456780")
	require.NoError(t, err)
	assert.Equal(t, domain.AppReference{
		Marketplace: domain.AppStore,
		AppID:       "814456780",
		Country:     "us",
		AppName:     "nubank conta e cartao",
	}, ref)

	ref, err = c.Classify("https://apps.apple.com/app/whatsapp-messenger/id310633997?l=pt")
	require.NoError(t, err)
	assert.Equal(t, "br", ref.Country, "falls back to the default country")
	assert.Equal(t, "whatsapp messenger", ref.AppName)
}

func TestClassify_AppStoreFailures(t *testing.T) {
	c := app.NewClassifier("br")

	_, err := c.Classify("https://apps.apple.com/br/app/nubank/")
	assert.ErrorIs(t, err, domain.ErrMissingAppID)

	_, err = c.Classify("https://apps.apple.com/br/app/id814456780")
	assert.ErrorIs(t, err, domain.ErrMissingAppName)

	_, err = c.Classify("https://apps.apple.com/br/developer/id814456780")
	assert.ErrorIs(t, err, domain.ErrMissingAppName)
}

func TestClassify_NeverPanics(t *testing.T) {
	c := app.NewClassifier("")
	for _, u := range []string{
		"https://play.google.com/\x00?id=\xff",
		"https://apps.apple.com/%zz/app/%zz/id1",
		"apps.apple.com/id",
		"play.google.com?id=a.b&id=c",
	} {
		assert.NotPanics(t, func() { _, _ = c.Classify(u) }, u)
	}
}
