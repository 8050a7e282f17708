package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/adamwalzer/regional-games-lambda/internal/models"
)

// Every collection endpoint is queried with the API's maximum page size.
const perPage = 100

// regionalGames fetches all games and keeps only the ones restricted to at
// least one zip code. Globally available games never produce attachment work.
func (p *Processor) regionalGames(ctx context.Context) ([]models.Game, error) {
	query := url.Values{"per_page": {strconv.Itoa(perPage)}}
	body, err := p.api.Get(ctx, "game", query)
	if err != nil {
		return nil, err
	}

	var page models.GamePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding game response: %w", err)
	}

	var regional []models.Game
	for _, game := range page.Embedded.Games {
		if game.Regional() {
			regional = append(regional, game)
		}
	}
	return regional, nil
}

// addressesForZip resolves the address ids serving a zip code. Only addresses
// that can be tied to a group are requested.
func (p *Processor) addressesForZip(ctx context.Context, zipCode string) ([]string, error) {
	query := url.Values{
		"postal_code": {zipCode},
		"filter":      {"group"},
		"per_page":    {strconv.Itoa(perPage)},
	}
	body, err := p.api.Get(ctx, "address", query)
	if err != nil {
		return nil, err
	}

	var page models.AddressPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding address response for zip %s: %w", zipCode, err)
	}

	ids := make([]string, 0, len(page.Embedded.Addresses))
	for _, address := range page.Embedded.Addresses {
		ids = append(ids, address.AddressID)
	}
	return ids, nil
}

// groupsForAddress resolves the group ids associated with an address.
func (p *Processor) groupsForAddress(ctx context.Context, addressID string) ([]string, error) {
	query := url.Values{"per_page": {strconv.Itoa(perPage)}}
	body, err := p.api.Get(ctx, "address/"+addressID+"/group", query)
	if err != nil {
		return nil, err
	}

	var page models.GroupPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding group response for address %s: %w", addressID, err)
	}

	ids := make([]string, 0, len(page.Embedded.Groups))
	for _, group := range page.Embedded.Groups {
		ids = append(ids, group.GroupID)
	}
	return ids, nil
}

// userPage fetches one page of a group's users.
func (p *Processor) userPage(ctx context.Context, groupID string, page int) (models.UserPage, error) {
	query := url.Values{
		"per_page": {strconv.Itoa(perPage)},
		"page":     {strconv.Itoa(page)},
	}
	body, err := p.api.Get(ctx, "group/"+groupID+"/users", query)
	if err != nil {
		return models.UserPage{}, err
	}

	var users models.UserPage
	if err := json.Unmarshal(body, &users); err != nil {
		return models.UserPage{}, fmt.Errorf("decoding users response for group %s: %w", groupID, err)
	}
	return users, nil
}
