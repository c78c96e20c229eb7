package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jrsteele09/go-storefront-client/cart"
	fakecartremote "github.com/jrsteele09/go-storefront-client/cart/repofake"
	apperrors "github.com/jrsteele09/go-storefront-client/internal/errors"
	"github.com/stretchr/testify/require"
)

var (
	ashwagandha = cart.Product{ID: 1, Name: "Ashwagandha", Price: 10}
	triphala    = cart.Product{ID: 4, Name: "Triphala", Price: 9.99}
	errBackend  = errors.New("backend unavailable")
)

func newLoadedSync(t *testing.T, lines ...cart.LineItem) (*cart.Synchronizer, *fakecartremote.FakeRemote) {
	t.Helper()

	remote := fakecartremote.NewFakeRemote(lines...)
	s := cart.NewSynchronizer(remote)
	require.NoError(t, s.Load(context.Background()))
	return s, remote
}

func TestLoad_ReplacesState(t *testing.T) {
	s, _ := newLoadedSync(t,
		cart.LineItem{ID: 7, ProductID: 1, Name: "Ashwagandha", Price: 10, Quantity: 2},
		cart.LineItem{ID: 8, ProductID: 4, Name: "Triphala", Price: 9.99, Quantity: 1},
	)

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, int64(7), items[0].ID)
	require.True(t, s.Loaded())
}

func TestLoad_FailureLeavesEmptyCart(t *testing.T) {
	remote := fakecartremote.NewFakeRemote(cart.LineItem{ID: 7, ProductID: 1, Price: 10, Quantity: 2})
	remote.Fail(cart.OpFetch, errBackend)
	s := cart.NewSynchronizer(remote)

	err := s.Load(context.Background())
	require.ErrorIs(t, err, errBackend)

	var opErr *cart.OpError
	require.True(t, errors.As(err, &opErr))
	require.Equal(t, cart.OpFetch, opErr.Op)
	require.Empty(t, s.Items())
	require.False(t, s.Loaded())
}

func TestEnsureLoaded_FetchesOnce(t *testing.T) {
	remote := fakecartremote.NewFakeRemote()
	s := cart.NewSynchronizer(remote)
	ctx := context.Background()

	require.NoError(t, s.EnsureLoaded(ctx))
	require.NoError(t, s.EnsureLoaded(ctx))
	require.Len(t, remote.Calls(), 1)
}

func TestAddToCart_NewLineThenIncrement(t *testing.T) {
	s, remote := newLoadedSync(t)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, ashwagandha))
	require.NoError(t, s.AddToCart(ctx, ashwagandha))
	require.NoError(t, s.AddToCart(ctx, triphala))

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, 2, items[0].Quantity)
	require.Equal(t, "Ashwagandha", items[0].Name)
	require.Equal(t, 1, items[1].Quantity)

	calls := remote.Calls()
	require.Len(t, calls, 4) // fetch + three adds
	for _, c := range calls[1:] {
		require.Equal(t, cart.OpAdd, c.Op)
		require.Equal(t, 1, c.Quantity)
	}
}

func TestAddToCart_IncrementsByProductID(t *testing.T) {
	s, _ := newLoadedSync(t, cart.LineItem{ID: 99, ProductID: 1, Name: "Ashwagandha", Price: 10, Quantity: 3})

	require.NoError(t, s.AddToCart(context.Background(), ashwagandha))

	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, int64(99), items[0].ID)
	require.Equal(t, 4, items[0].Quantity)
}

func TestAddToCart_LineIDCollisionReloads(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 1, ProductID: 4, Name: "Triphala", Price: 9.99, Quantity: 1})
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, ashwagandha))

	items := s.Items()
	require.Len(t, items, 2)
	require.NotEqual(t, items[0].ID, items[1].ID)
	require.Equal(t, remote.Lines(), items)
	require.Equal(t, []fakecartremote.Call{
		{Op: cart.OpFetch},
		{Op: cart.OpAdd, ID: 1, Quantity: 1},
		{Op: cart.OpFetch},
	}, remote.Calls())

	require.NoError(t, s.RemoveFromCart(ctx, 1))
	items = s.Items()
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].ProductID)
	require.Equal(t, remote.Lines(), items)
}

func TestAddToCart_LineIDCollisionReloadFailure(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 1, ProductID: 4, Price: 9.99, Quantity: 1})
	remote.Fail(cart.OpFetch, errBackend)

	err := s.AddToCart(context.Background(), ashwagandha)
	require.ErrorIs(t, err, errBackend)
	require.Len(t, s.Items(), 1)
}

func TestAddToCart_FailureLeavesCartUntouched(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 1, ProductID: 1, Name: "Ashwagandha", Price: 10, Quantity: 2})
	before := s.Items()
	remote.Fail(cart.OpAdd, errBackend)

	err := s.AddToCart(context.Background(), ashwagandha)
	require.ErrorIs(t, err, errBackend)
	require.Equal(t, before, s.Items())

	err = s.AddToCart(context.Background(), triphala)
	require.ErrorIs(t, err, errBackend)
	require.Equal(t, before, s.Items())
}

func TestAddToCart_RejectsInvalidProduct(t *testing.T) {
	s, remote := newLoadedSync(t)

	err := s.AddToCart(context.Background(), cart.Product{ID: 0, Price: 1})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	require.Len(t, remote.Calls(), 1)
}

func TestAddThenRemove(t *testing.T) {
	remote := fakecartremote.NewFakeRemote()
	s := cart.NewSynchronizer(remote)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, cart.Product{ID: 1, Price: 10}))
	require.NoError(t, s.RemoveFromCart(ctx, 1))

	require.Empty(t, s.Items())
	require.Equal(t, []fakecartremote.Call{
		{Op: cart.OpAdd, ID: 1, Quantity: 1},
		{Op: cart.OpRemove, ID: 1},
	}, remote.Calls())
}

func TestRemoveFromCart_FailureKeepsLine(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 5, ProductID: 1, Price: 10, Quantity: 1})
	remote.Fail(cart.OpRemove, errBackend)

	err := s.RemoveFromCart(context.Background(), 5)
	require.ErrorIs(t, err, errBackend)
	require.Len(t, s.Items(), 1)
}

func TestUpdateQuantity(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 5, ProductID: 1, Price: 10, Quantity: 1})

	require.NoError(t, s.UpdateQuantity(context.Background(), 5, 3))
	require.Equal(t, 3, s.Items()[0].Quantity)
	require.Equal(t, 3, remote.Lines()[0].Quantity)
}

func TestUpdateQuantity_BelowOneIsRejectedLocally(t *testing.T) {
	for _, qty := range []int{0, -1} {
		s, remote := newLoadedSync(t, cart.LineItem{ID: 5, ProductID: 1, Price: 10, Quantity: 2})
		before := s.Items()

		err := s.UpdateQuantity(context.Background(), 5, qty)
		require.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
		require.Equal(t, before, s.Items())
		require.Len(t, remote.Calls(), 1, "only the initial fetch reaches the backend")
	}
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	s, remote := newLoadedSync(t)

	err := s.UpdateQuantity(context.Background(), 42, 2)
	require.ErrorIs(t, err, apperrors.ErrItemNotFound)
	require.Len(t, remote.Calls(), 1)
}

func TestUpdateQuantity_FailureKeepsQuantity(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 5, ProductID: 1, Price: 10, Quantity: 2})
	remote.Fail(cart.OpUpdate, errBackend)

	require.ErrorIs(t, s.UpdateQuantity(context.Background(), 5, 4), errBackend)
	require.Equal(t, 2, s.Items()[0].Quantity)
}

func TestClearCart_Idempotent(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 5, ProductID: 1, Price: 10, Quantity: 2})
	ctx := context.Background()

	require.NoError(t, s.ClearCart(ctx))
	require.Empty(t, s.Items())
	require.NoError(t, s.ClearCart(ctx))
	require.Empty(t, s.Items())
	require.Empty(t, remote.Lines())
}

func TestClearCart_FailureKeepsLines(t *testing.T) {
	s, remote := newLoadedSync(t, cart.LineItem{ID: 5, ProductID: 1, Price: 10, Quantity: 2})
	remote.Fail(cart.OpClear, errBackend)

	require.ErrorIs(t, s.ClearCart(context.Background()), errBackend)
	require.Len(t, s.Items(), 1)
}

func TestOnChange_ReceivesEverySnapshot(t *testing.T) {
	var snapshots [][]cart.LineItem
	remote := fakecartremote.NewFakeRemote()
	s := cart.NewSynchronizer(remote, cart.WithOnChange(func(items []cart.LineItem) {
		snapshots = append(snapshots, items)
	}))
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.AddToCart(ctx, ashwagandha))
	remote.Fail(cart.OpAdd, errBackend)
	require.Error(t, s.AddToCart(ctx, triphala))

	require.Len(t, snapshots, 2)
	require.Empty(t, snapshots[0])
	require.Len(t, snapshots[1], 1)
}

func TestItems_ReturnsCopy(t *testing.T) {
	s, _ := newLoadedSync(t, cart.LineItem{ID: 5, ProductID: 1, Price: 10, Quantity: 2})

	items := s.Items()
	items[0].Quantity = 100
	require.Equal(t, 2, s.Items()[0].Quantity)
}

func TestConcurrentAdds(t *testing.T) {
	s, remote := newLoadedSync(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.AddToCart(ctx, ashwagandha)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, 20, items[0].Quantity)
	require.Equal(t, 20, remote.Lines()[0].Quantity)
}
