package models

// HAL-shaped payloads returned by the games API. Collections live under
// "_embedded" and pagination is signaled through "_links.next"; a missing
// "_embedded" field simply leaves the slice nil.

type GamePage struct {
	Embedded GamePageEmbedded `json:"_embedded"`
}

type GamePageEmbedded struct {
	Games []Game `json:"game"`
}

type Game struct {
	GameID string   `json:"game_id"`
	Meta   GameMeta `json:"meta"`
}

type GameMeta struct {
	Zipcodes []string `json:"zipcodes"`
}

// Regional reports whether the game is restricted to specific zip codes.
func (g Game) Regional() bool {
	return len(g.Meta.Zipcodes) > 0
}

type AddressPage struct {
	Embedded AddressPageEmbedded `json:"_embedded"`
}

type AddressPageEmbedded struct {
	Addresses []Address `json:"address"`
}

type Address struct {
	AddressID string `json:"address_id"`
}

type GroupPage struct {
	Embedded GroupPageEmbedded `json:"_embedded"`
}

type GroupPageEmbedded struct {
	Groups []Group `json:"group"`
}

type Group struct {
	GroupID string `json:"group_id"`
}

type UserPage struct {
	Embedded UserPageEmbedded `json:"_embedded"`
	Links    PageLinks        `json:"_links"`
}

type UserPageEmbedded struct {
	Items []User `json:"items"`
}

type User struct {
	UserID string `json:"user_id"`
}

type PageLinks struct {
	Next *PageLink `json:"next"`
}

type PageLink struct {
	Href string `json:"href"`
}

// HasNext reports whether the API advertises a further page.
func (p UserPage) HasNext() bool {
	return p.Links.Next != nil
}

// JobEvent is the trigger payload accepted by the job endpoint.
type JobEvent struct {
	URI   string `json:"uri"`
	Job   string `json:"job"`
	Group string `json:"group"`
}
