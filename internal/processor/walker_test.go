package processor

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcegraph/conc/pool"
)

func TestWalkGroupStopsWhenNoNextPage(t *testing.T) {
	f := newFakeAPI(t)
	f.userPages["grp1"] = [][]string{{"u1", "u2"}, {"u3"}}

	p := f.processor(t)
	tasks := pool.New()
	err := p.walkGroup(context.Background(), "grp1", []string{"g1", "g2"}, tasks)
	tasks.Wait()
	require.NoError(t, err)

	// two pages fetched, |users| x |games| tasks dispatched
	assert.Equal(t, 2, f.fetches("grp1"))
	assert.Equal(t, []string{"u1/g1", "u1/g2", "u2/g1", "u2/g2", "u3/g1", "u3/g2"}, f.attached())
}

func TestWalkGroupPaginatesLargeGroup(t *testing.T) {
	// 250 users across 3 pages with one game: exactly 3 fetches, 250 tasks.
	pages := make([][]string, 3)
	total := 0
	for i := range pages {
		size := 100
		if i == 2 {
			size = 50
		}
		for j := 0; j < size; j++ {
			total++
			pages[i] = append(pages[i], fmt.Sprintf("u%03d", total))
		}
	}
	require.Equal(t, 250, total)

	f := newFakeAPI(t)
	f.userPages["grp1"] = pages

	p := f.processor(t)
	tasks := pool.New()
	err := p.walkGroup(context.Background(), "grp1", []string{"g1"}, tasks)
	tasks.Wait()
	require.NoError(t, err)

	assert.Equal(t, 3, f.fetches("grp1"))
	assert.Len(t, f.attached(), 250)
}

func TestWalkGroupEmptyGroup(t *testing.T) {
	f := newFakeAPI(t)
	f.userPages["grp1"] = [][]string{}

	p := f.processor(t)
	tasks := pool.New()
	err := p.walkGroup(context.Background(), "grp1", []string{"g1"}, tasks)
	tasks.Wait()
	require.NoError(t, err)

	assert.Equal(t, 1, f.fetches("grp1"))
	assert.Empty(t, f.attached())
}

func TestAttachFailureDoesNotAbortSiblings(t *testing.T) {
	f := newFakeAPI(t)
	f.addGame("g1", "10001")
	f.addressesByZip["10001"] = []string{"a1"}
	f.groupsByAddress["a1"] = []string{"grp1"}
	f.userPages["grp1"] = [][]string{{"u1", "u2", "u3"}}
	f.failAttach["u2/g1"] = http.StatusInternalServerError

	p := f.processor(t)
	// an individual attachment failure is logged, never surfaced
	require.NoError(t, p.Cron(context.Background()))

	assert.Equal(t, []string{"u1/g1", "u3/g1"}, f.attached())
}

func TestAttachConflictTreatedAsAlreadyAttached(t *testing.T) {
	f := newFakeAPI(t)
	f.addGame("g1", "10001")
	f.addressesByZip["10001"] = []string{"a1"}
	f.groupsByAddress["a1"] = []string{"grp1"}
	f.userPages["grp1"] = [][]string{{"u1", "u2"}}
	f.failAttach["u1/g1"] = http.StatusConflict

	p := f.processor(t)
	require.NoError(t, p.Cron(context.Background()))

	// u1 already had the game; only u2's attachment goes through
	assert.Equal(t, []string{"u2/g1"}, f.attached())
}

func TestCronFailsWhenGroupPageFetchFails(t *testing.T) {
	f := newFakeAPI(t)
	f.addGame("g1", "10001")
	f.addressesByZip["10001"] = []string{"a1"}
	f.groupsByAddress["a1"] = []string{"grp1", "grp2"}
	f.userPages["grp2"] = [][]string{{"u1"}}
	f.failUsersGroup = "grp1"

	p := f.processor(t)
	err := p.Cron(context.Background())
	require.Error(t, err)

	// grp2's walk still completed and its attachments still landed
	assert.Equal(t, []string{"u1/g1"}, f.attached())
}
