package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixture() []domain.Ticket {
	return []domain.Ticket{
		{
			ID: "t1", Subject: "Cannot access email", Description: "Login fails",
			CategoryID: "email", Status: domain.TicketStatusOpen,
			CreatedAt: base.Add(-72 * time.Hour), UpdatedAt: base.Add(-1 * time.Hour),
			Votes: domain.Votes{Up: 3, Down: 0},
		},
		{
			ID: "t2", Subject: "Need software installation", Description: "Please install Photoshop",
			CategoryID: "software", Status: domain.TicketStatusInProgress,
			CreatedAt: base.Add(-48 * time.Hour), UpdatedAt: base.Add(-24 * time.Hour),
			Votes:    domain.Votes{Up: 5, Down: 9},
			Comments: []domain.Comment{{ID: 1}},
		},
		{
			ID: "t3", Subject: "Printer not working", Description: "Shows E502 on the EMAIL relay panel",
			CategoryID: "hardware", Status: domain.TicketStatusResolved,
			CreatedAt: base.Add(-24 * time.Hour), UpdatedAt: base.Add(-12 * time.Hour),
			Votes:    domain.Votes{Up: 1},
			Comments: []domain.Comment{{ID: 1}, {ID: 2}},
		},
	}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestApply_Sorting(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{key: SortNewest, want: []string{"t3", "t2", "t1"}},
		{key: SortOldest, want: []string{"t1", "t2", "t3"}},
		{key: SortUpdated, want: []string{"t1", "t3", "t2"}},
		{key: SortMostVoted, want: []string{"t2", "t1", "t3"}},
		{key: SortMostCommented, want: []string{"t3", "t2", "t1"}},
		{key: SortKey(""), want: []string{"t3", "t2", "t1"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := Apply(fixture(), Spec{Sort: tt.key})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_MostVotedIgnoresDownVotes(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "three", Votes: domain.Votes{Up: 3, Down: 0}},
		{ID: "five", Votes: domain.Votes{Up: 5, Down: 100}},
	}

	got := Apply(tickets, Spec{Sort: SortMostVoted})

	assert.Equal(t, []string{"five", "three"}, ids(got))
}

func TestApply_TiesKeepStoreOrder(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base},
		{ID: "c", CreatedAt: base},
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Apply(tickets, Spec{Sort: SortNewest})))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Apply(tickets, Spec{Sort: SortMostCommented})))
}

func TestApply_Filters(t *testing.T) {
	inProgress := domain.TicketStatusInProgress
	closed := domain.TicketStatusClosed
	hardware := "hardware"

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "none", filter: Filter{}, want: []string{"t3", "t2", "t1"}},
		{name: "status", filter: Filter{Status: &inProgress}, want: []string{"t2"}},
		{name: "status without match", filter: Filter{Status: &closed}, want: []string{}},
		{name: "category", filter: Filter{CategoryID: &hardware}, want: []string{"t3"}},
		{name: "search subject case-insensitive", filter: Filter{Search: "PRINTER"}, want: []string{"t3"}},
		{name: "search matches subject or description", filter: Filter{Search: "email"}, want: []string{"t3", "t1"}},
		{name: "conditions are ANDed", filter: Filter{Search: "email", CategoryID: &hardware}, want: []string{"t3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(fixture(), Spec{Filter: tt.filter})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	input := fixture()

	_ = Apply(input, Spec{Sort: SortOldest})

	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(input))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortMostVoted, ParseSortKey("mostVoted"))
	assert.Equal(t, SortNewest, ParseSortKey(""))
	assert.Equal(t, SortNewest, ParseSortKey("bogus"))
}

func TestParseStatus(t *testing.T) {
	status := ParseStatus("In Progress")
	require.NotNil(t, status)
	assert.Equal(t, domain.TicketStatusInProgress, *status)

	assert.Nil(t, ParseStatus(""))
}

func TestApply_UnknownStatusMatchesNothing(t *testing.T) {
	candidates := []domain.Ticket{
		{ID: "t1", Status: domain.TicketStatusOpen},
		{ID: "t2", Status: domain.TicketStatusClosed},
	}

	got := Apply(candidates, Spec{Filter: Filter{Status: ParseStatus("Pending")}})

	assert.Empty(t, got)
}
