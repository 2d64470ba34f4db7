package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_Valid(t *testing.T) {
	for _, s := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed} {
		assert.True(t, s.Valid(), s)
	}
	for _, s := range []TicketStatus{"", "open", "IN_PROGRESS", "Pending"} {
		assert.False(t, s.Valid(), s)
	}
}

func TestNextCommentID(t *testing.T) {
	ticket := &Ticket{}
	assert.Equal(t, 1, ticket.NextCommentID())

	ticket.Comments = []Comment{{ID: 2}, {ID: 7}, {ID: 3}}
	assert.Equal(t, 8, ticket.NextCommentID())
}

func TestClone_DoesNotShareState(t *testing.T) {
	agent := "a1"
	orig := &Ticket{
		ID:          "t1",
		AssignedTo:  &agent,
		Attachments: []string{"a.png"},
		Comments:    []Comment{{ID: 1, Content: "hi"}},
	}

	cp := orig.Clone()
	*cp.AssignedTo = "a2"
	cp.Attachments[0] = "b.png"
	cp.Comments = append(cp.Comments, Comment{ID: 2})
	cp.Comments[0].Content = "changed"

	assert.Equal(t, "a1", *orig.AssignedTo)
	assert.Equal(t, "a.png", orig.Attachments[0])
	assert.Len(t, orig.Comments, 1)
	assert.Equal(t, "hi", orig.Comments[0].Content)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAgent.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
	assert.False(t, RoleUser.IsStaff())
	assert.False(t, Role("root").Valid())
}
