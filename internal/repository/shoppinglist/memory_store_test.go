package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"homewise/internal/domain"
	"homewise/internal/tester"
)

func TestAddBumpsQuantityOnDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1", Name: "Washer"})
	tester.NoErr(t, err)
	tester.Eq(t, first.Quantity, 1, "quantity defaults to one")

	second, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1", Name: "Washer", Quantity: 2})
	tester.NoErr(t, err)
	tester.Eq(t, second.ID, first.ID, "duplicate add must not create a new row")
	tester.Eq(t, second.Quantity, 3)

	items, err := s.ListByUser(ctx, "u1")
	tester.NoErr(t, err)
	tester.Eq(t, len(items), 1)
}

func TestAddSameNameDifferentIssueIsSeparate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1", Name: "Washer"})
	tester.NoErr(t, err)
	_, err = s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-2", Name: "Washer"})
	tester.NoErr(t, err)

	items, err := s.ListByUser(ctx, "u1")
	tester.NoErr(t, err)
	tester.Eq(t, len(items), 2)

	scoped, err := s.ListByIssue(ctx, "u1", "issue-2")
	tester.NoErr(t, err)
	tester.Eq(t, len(scoped), 1)
	tester.Eq(t, scoped[0].IssueID, "issue-2")
}

func TestAddIsScopedPerUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1", Name: "Washer"})
	tester.NoErr(t, err)
	b, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u2", IssueID: "issue-1", Name: "Washer"})
	tester.NoErr(t, err)
	tester.True(t, a.ID != b.ID, "different users get separate rows")
}

func TestAddValidation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1"})
	tester.True(t, errors.Is(err, domain.ErrInvalidRequest), "name is required")

	_, err = s.Add(ctx, domain.ShoppingListItem{IssueID: "issue-1", Name: "Washer"})
	tester.True(t, errors.Is(err, domain.ErrUnauthorized), "user is required")

	// No issue id means an ad-hoc item; that is fine.
	_, err = s.Add(ctx, domain.ShoppingListItem{UserID: "u1", Name: "Batteries"})
	tester.NoErr(t, err)
}

func TestSetCompletedAndQuantity(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	item, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1", Name: "Washer"})
	tester.NoErr(t, err)

	tester.NoErr(t, s.SetCompleted(ctx, "u1", item.ID, true))
	tester.NoErr(t, s.SetQuantity(ctx, "u1", item.ID, 5))

	items, err := s.ListByIssue(ctx, "u1", "issue-1")
	tester.NoErr(t, err)
	tester.True(t, items[0].Completed)
	tester.Eq(t, items[0].Quantity, 5)

	tester.True(t, errors.Is(s.SetQuantity(ctx, "u1", item.ID, 0), domain.ErrInvalidRequest))
	tester.True(t, errors.Is(s.SetCompleted(ctx, "u2", item.ID, true), domain.ErrNotFound),
		"another user's row looks like it does not exist")
}

func TestDeleteByIssue(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1", Name: "Washer"})
	tester.NoErr(t, err)
	_, err = s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-1", Name: "Cartridge"})
	tester.NoErr(t, err)
	_, err = s.Add(ctx, domain.ShoppingListItem{UserID: "u1", IssueID: "issue-2", Name: "Caulk"})
	tester.NoErr(t, err)

	tester.NoErr(t, s.DeleteByIssue(ctx, "u1", "issue-1"))

	items, err := s.ListByUser(ctx, "u1")
	tester.NoErr(t, err)
	tester.Eq(t, len(items), 1)
	tester.Eq(t, items[0].Name, "Caulk")
}
