package presentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type countingUsers struct {
	repository.UserRepository
	lookups int
	failOn  string
}

func (c *countingUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	c.lookups++
	if id == c.failOn {
		return nil, errors.New("connection reset")
	}
	return c.UserRepository.GetByID(ctx, id)
}

type adapterFixture struct {
	adapter  *Adapter
	users    *countingUsers
	author   *domain.User
	agent    *domain.User
	category *domain.Category
}

func newAdapterFixture(t *testing.T) *adapterFixture {
	t.Helper()
	ctx := context.Background()
	users := &countingUsers{UserRepository: repository.NewMemoryUserRepository(nil)}
	categories := repository.NewMemoryCategoryRepository(nil)

	author := &domain.User{Name: "Test User", Email: "user@example.com", Role: domain.RoleUser}
	agent := &domain.User{Name: "Test Agent", Email: "agent@example.com", Role: domain.RoleAgent}
	require.NoError(t, users.Create(ctx, author))
	require.NoError(t, users.Create(ctx, agent))
	category := &domain.Category{Name: "Email"}
	require.NoError(t, categories.Create(ctx, category))

	return &adapterFixture{
		adapter:  NewAdapter(users, categories),
		users:    users,
		author:   author,
		agent:    agent,
		category: category,
	}
}

func TestAdapter_ResolvesReferences(t *testing.T) {
	f := newAdapterFixture(t)
	assignee := f.agent.ID
	ticket := &domain.Ticket{
		ID:         "t1",
		Subject:    "Cannot access email",
		CategoryID: f.category.ID,
		CreatedBy:  f.author.ID,
		AssignedTo: &assignee,
		Comments: []domain.Comment{
			{ID: 1, UserID: f.author.ID, Content: "help"},
			{ID: 2, UserID: f.agent.ID, Content: "Checking now"},
		},
	}

	view, err := f.adapter.Ticket(context.Background(), ticket)

	require.NoError(t, err)
	assert.Equal(t, "Email", view.Category.Name)
	assert.Equal(t, "Test User", view.CreatedBy.Name)
	assert.Equal(t, "user@example.com", view.CreatedBy.Email)
	require.NotNil(t, view.AssignedTo)
	assert.Equal(t, "Test Agent", view.AssignedTo.Name)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, "Test Agent", view.Comments[1].User.Name)
	assert.Equal(t, []string{}, view.Attachments)
	assert.Equal(t, 2, f.users.lookups, "each distinct user is looked up once")
}

func TestAdapter_DanglingReferencesBecomeTombstones(t *testing.T) {
	f := newAdapterFixture(t)
	tickets := []domain.Ticket{
		{ID: "t1", CategoryID: "gone-category", CreatedBy: "gone-user", Comments: []domain.Comment{{ID: 1, UserID: "gone-user"}}},
		{ID: "t2", CategoryID: f.category.ID, CreatedBy: f.author.ID},
	}

	views, err := f.adapter.Tickets(context.Background(), tickets)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, CategoryRef{ID: "gone-category", Name: DeletedCategoryName, Deleted: true}, views[0].Category)
	assert.Equal(t, UserRef{ID: "gone-user", Name: DeletedUserName, Deleted: true}, views[0].CreatedBy)
	assert.True(t, views[0].Comments[0].User.Deleted)
	assert.Nil(t, views[0].AssignedTo)
	assert.Equal(t, "Test User", views[1].CreatedBy.Name)
}

func TestAdapter_PropagatesStoreFailures(t *testing.T) {
	f := newAdapterFixture(t)
	f.users.failOn = f.author.ID

	_, err := f.adapter.Ticket(context.Background(), &domain.Ticket{ID: "t1", CategoryID: f.category.ID, CreatedBy: f.author.ID})

	assert.ErrorContains(t, err, "connection reset")
}

func TestAdapter_Comment(t *testing.T) {
	f := newAdapterFixture(t)

	view, err := f.adapter.Comment(context.Background(), &domain.Comment{ID: 3, UserID: f.agent.ID, Content: "done"})

	require.NoError(t, err)
	assert.Equal(t, 3, view.ID)
	assert.Equal(t, UserRef{ID: f.agent.ID, Name: "Test Agent", Email: "agent@example.com", Role: domain.RoleAgent}, view.User)
}
