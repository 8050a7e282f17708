package processor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sourcegraph/conc/pool"

	"github.com/adamwalzer/regional-games-lambda/internal/api"
)

// walkGroup pages through a group's users starting at page 1 and dispatches one
// attachment task per (user, game) pair onto the run's task pool. Dispatch does
// not wait for attachments; the fetch of page N+1 only waits for page N's
// response. The walk terminates when the API stops advertising a next page.
func (p *Processor) walkGroup(ctx context.Context, groupID string, gameIDs []string, tasks *pool.Pool) error {
	for page := 1; ; page++ {
		p.log.Debug("processing group page",
			slog.String("group", groupID),
			slog.Int("page", page),
			slog.Any("games", gameIDs))

		users, err := p.userPage(ctx, groupID, page)
		if err != nil {
			return err
		}

		for _, user := range users.Embedded.Items {
			for _, gameID := range gameIDs {
				userID := user.UserID
				pageNum := page
				tasks.Go(func() {
					p.attachGame(ctx, userID, gameID, groupID, pageNum)
				})
			}
		}

		if !users.HasNext() {
			return nil
		}
	}
}

// attachGame grants one game to one user. Failures are logged and swallowed: a
// single failed attachment never aborts the walk that spawned it or any sibling
// task. A 409 means the user already has the game and counts as success.
func (p *Processor) attachGame(ctx context.Context, userID, gameID, groupID string, page int) {
	p.log.Info("saving game to user",
		slog.String("game", gameID),
		slog.String("user", userID))

	err := p.api.Post(ctx, "user/"+userID+"/game/"+gameID, struct{}{})
	if err == nil {
		return
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusConflict {
		p.log.Debug("game already attached to user",
			slog.String("game", gameID),
			slog.String("user", userID))
		return
	}

	p.log.Warn("failed to attach game to user",
		slog.String("user", userID),
		slog.String("game", gameID),
		slog.String("group", groupID),
		slog.Int("page", page),
		slog.Any("error", err))
}
