// Package processor walks the games API relationship graph and attaches
// regional games to the users of the groups serving their zip codes.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/adamwalzer/regional-games-lambda/internal/api"
	"github.com/adamwalzer/regional-games-lambda/internal/models"
)

// GameHash aggregates, per zip code, the games restricted to it, the addresses
// serving it, and (once resolved) the groups reachable through one of those
// addresses. Records are never mutated after group resolution.
type GameHash struct {
	Games     []string
	Addresses []string
	ZipCode   string
	Groups    []string
}

// Processor owns one pipeline run. All state is created per run; nothing
// survives between Cron or Group invocations.
type Processor struct {
	api *api.Client
	log *slog.Logger
}

func New(client *api.Client, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	log.Debug("initializing processor")
	return &Processor{api: client, log: log}
}

// buildZipIndex inverts the games' zip code lists into a zip -> game ids map.
// A zip appears iff at least one game lists it.
func buildZipIndex(games []models.Game) map[string][]string {
	index := make(map[string][]string)
	for _, game := range games {
		for _, zip := range game.Meta.Zipcodes {
			index[zip] = append(index[zip], game.GameID)
		}
	}
	return index
}

// resolve performs the staged graph walk: regional games, the zip index,
// addresses per zip, then groups per (record, address). Each stage is fully
// awaited before the next begins, and a failure in any branch fails the stage.
func (p *Processor) resolve(ctx context.Context) ([]GameHash, error) {
	games, err := p.regionalGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching regional games: %w", err)
	}
	gamesByZip := buildZipIndex(games)

	// Resolve addresses for every zip concurrently. No cancellation is
	// propagated between branches; a hung call stalls only its own branch.
	addresses := pool.NewWithResults[GameHash]().WithErrors()
	for zipCode, gameIDs := range gamesByZip {
		addresses.Go(func() (GameHash, error) {
			addressIDs, err := p.addressesForZip(ctx, zipCode)
			if err != nil {
				return GameHash{}, fmt.Errorf("fetching addresses for zip %s: %w", zipCode, err)
			}
			return GameHash{Games: gameIDs, Addresses: addressIDs, ZipCode: zipCode}, nil
		})
	}
	records, err := addresses.Wait()
	if err != nil {
		return nil, err
	}

	// Zip codes with no serving address yield no downstream work.
	withAddresses := records[:0]
	for _, record := range records {
		if len(record.Addresses) > 0 {
			withAddresses = append(withAddresses, record)
		}
	}

	// Resolve groups per (record, address). Addresses are not merged: a record
	// with N addresses yields N output records, each carrying one address's
	// groups. An empty group list is a valid resolution, not an error.
	groups := pool.NewWithResults[GameHash]().WithErrors()
	for _, record := range withAddresses {
		for _, addressID := range record.Addresses {
			groups.Go(func() (GameHash, error) {
				groupIDs, err := p.groupsForAddress(ctx, addressID)
				if err != nil {
					return GameHash{}, fmt.Errorf("fetching groups for address %s: %w", addressID, err)
				}
				resolved := record
				resolved.Groups = groupIDs
				return resolved, nil
			})
		}
	}
	return groups.Wait()
}

// Cron processes every regional game: every group of every resolved record is
// walked and each of its users receives each of the record's games.
func (p *Processor) Cron(ctx context.Context) error {
	records, err := p.resolve(ctx)
	if err != nil {
		return err
	}

	tasks := pool.New()
	var walks errgroup.Group
	for _, record := range records {
		p.log.Debug("processing game hash",
			slog.String("zipCode", record.ZipCode),
			slog.Any("games", record.Games),
			slog.Any("groups", record.Groups))
		for _, groupID := range record.Groups {
			games := record.Games
			walks.Go(func() error {
				return p.walkGroup(ctx, groupID, games, tasks)
			})
		}
	}

	walkErr := walks.Wait()
	// Attachment tasks already dispatched run to completion even when a
	// sibling walk failed; completion means terminal, not successful.
	tasks.Wait()
	if walkErr != nil {
		return walkErr
	}

	p.log.Info("done processing cron")
	return nil
}

// Group restricts dispatch to one group: only records whose resolved groups
// contain groupID are walked. No matching record is a successful no-op.
func (p *Processor) Group(ctx context.Context, groupID string) error {
	records, err := p.resolve(ctx)
	if err != nil {
		return err
	}

	tasks := pool.New()
	var walks errgroup.Group
	for _, record := range records {
		p.log.Debug("processing game hash",
			slog.String("zipCode", record.ZipCode),
			slog.Any("games", record.Games),
			slog.Any("groups", record.Groups))
		if !slices.Contains(record.Groups, groupID) {
			continue
		}
		games := record.Games
		walks.Go(func() error {
			return p.walkGroup(ctx, groupID, games, tasks)
		})
	}

	walkErr := walks.Wait()
	tasks.Wait()
	if walkErr != nil {
		return walkErr
	}

	p.log.Info("done processing group", slog.String("group", groupID))
	return nil
}
