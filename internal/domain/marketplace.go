package domain

type Marketplace string

const (
	PlayStore Marketplace = "play_store"
	AppStore  Marketplace = "app_store"
)

func (m Marketplace) Valid() bool { return m == PlayStore || m == AppStore }

// AppReference identifies one app within one marketplace. AppName is only
// populated for the App Store, whose review endpoint is reached through the
// app page slug.
type AppReference struct {
	Marketplace Marketplace `json:"marketplace"`
	AppID       string      `json:"app_id"`
	Country     string      `json:"country"`
	AppName     string      `json:"app_name,omitempty"`
}
