package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryman/pantryman-be/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestItemService_CreateAndList(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sender := &fakeSender{}
	authSvc := newTestAuthService(t, db, sender)
	lists := NewListService(db)
	svc := NewItemService(db)
	ctx := context.Background()

	userID := signupVerified(t, authSvc, sender, "items@x.com", "longpassword")
	list, err := lists.Create(ctx, userID, "Groceries")
	require.NoError(t, err)

	var validationErr *ValidationError
	_, err = svc.Create(ctx, list.ID, userID, "", 1)
	assert.ErrorAs(t, err, &validationErr)
	_, err = svc.Create(ctx, list.ID, userID, "Milk", 0)
	assert.ErrorAs(t, err, &validationErr)

	item, err := svc.Create(ctx, list.ID, userID, "Milk", 2)
	require.NoError(t, err)
	assert.Equal(t, list.ID, item.ListID)
	assert.False(t, item.IsChecked)
	assert.False(t, item.IsFavorite)

	got, err := svc.GetAll(ctx, list.ID, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)
	assert.Equal(t, 2, got[0].Quantity)
}

func TestItemService_ParentListOwnership(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sender := &fakeSender{}
	authSvc := newTestAuthService(t, db, sender)
	lists := NewListService(db)
	svc := NewItemService(db)
	ctx := context.Background()

	alice := signupVerified(t, authSvc, sender, "alice-items@x.com", "longpassword")
	bob := signupVerified(t, authSvc, sender, "bob-items@x.com", "longpassword")

	list, err := lists.Create(ctx, alice, "Alice's list")
	require.NoError(t, err)
	item, err := svc.Create(ctx, list.ID, alice, "Milk", 1)
	require.NoError(t, err)

	// Bob cannot see, add to, change, or delete items on Alice's list.
	_, err = svc.GetAll(ctx, list.ID, bob)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Create(ctx, list.ID, bob, "Sneaky", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Update(ctx, item.ID, bob, models.ItemPatch{Name: ptr("Hacked")}), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, item.ID, bob), ErrNotFound)

	got, err := svc.GetAll(ctx, list.ID, alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)
}

func TestItemService_PartialUpdate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sender := &fakeSender{}
	authSvc := newTestAuthService(t, db, sender)
	lists := NewListService(db)
	svc := NewItemService(db)
	ctx := context.Background()

	userID := signupVerified(t, authSvc, sender, "patch@x.com", "longpassword")
	list, err := lists.Create(ctx, userID, "Groceries")
	require.NoError(t, err)
	item, err := svc.Create(ctx, list.ID, userID, "Milk", 2)
	require.NoError(t, err)

	// Patch only the checked flag; everything else stays.
	require.NoError(t, svc.Update(ctx, item.ID, userID, models.ItemPatch{IsChecked: ptr(true)}))

	got, err := svc.GetAll(ctx, list.ID, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)
	assert.Equal(t, 2, got[0].Quantity)
	assert.True(t, got[0].IsChecked)

	// The merged value is what gets validated.
	var validationErr *ValidationError
	assert.ErrorAs(t, svc.Update(ctx, item.ID, userID, models.ItemPatch{Quantity: ptr(0)}), &validationErr)
	assert.ErrorAs(t, svc.Update(ctx, item.ID, userID, models.ItemPatch{Name: ptr("  ")}), &validationErr)

	require.NoError(t, svc.Update(ctx, item.ID, userID, models.ItemPatch{Name: ptr("Oat milk"), Quantity: ptr(3)}))
	got, err = svc.GetAll(ctx, list.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Oat milk", got[0].Name)
	assert.Equal(t, 3, got[0].Quantity)
}

func TestItemService_Delete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	sender := &fakeSender{}
	authSvc := newTestAuthService(t, db, sender)
	lists := NewListService(db)
	svc := NewItemService(db)
	ctx := context.Background()

	userID := signupVerified(t, authSvc, sender, "del@x.com", "longpassword")
	list, err := lists.Create(ctx, userID, "Groceries")
	require.NoError(t, err)
	item, err := svc.Create(ctx, list.ID, userID, "Milk", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID, userID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID, userID), ErrNotFound)
}
