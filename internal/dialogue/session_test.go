package dialogue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"takeorder/internal/menu"
	"takeorder/internal/monitoring"
)

type fakeSurface struct {
	texts []string
	roles []Role
}

func (f *fakeSurface) Render(text string, role Role) {
	f.texts = append(f.texts, text)
	f.roles = append(f.roles, role)
}

func (f *fakeSurface) botTexts() []string {
	var out []string
	for i, text := range f.texts {
		if f.roles[i] == RoleBot {
			out = append(out, text)
		}
	}
	return out
}

func (f *fakeSurface) botSaid(substr string) bool {
	for _, text := range f.botTexts() {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

// fakeGateway records calls and holds the callbacks so tests deliver
// responses after HandleInput has returned, matching the async contract.
type fakeGateway struct {
	finalizeCalls int
	finalizeItems map[string]int
	finalizeTotal float64
	finalizeFn    func(FinalizeResult)

	trackCalls  int
	trackNumber string
	trackFn     func(TrackResult)
}

func (g *fakeGateway) Finalize(items map[string]int, totalCost float64, fn func(FinalizeResult)) {
	g.finalizeCalls++
	g.finalizeItems = items
	g.finalizeTotal = totalCost
	g.finalizeFn = fn
}

func (g *fakeGateway) Track(trackingNumber string, fn func(TrackResult)) {
	g.trackCalls++
	g.trackNumber = trackingNumber
	g.trackFn = fn
}

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) Load(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) Save(key, value string) error {
	s.data[key] = value
	return nil
}

func newTestSession() (*Session, *fakeSurface, *fakeGateway, *fakeStore) {
	surface := &fakeSurface{}
	gateway := &fakeGateway{}
	store := newFakeStore()
	s := NewSession(menu.Default(), surface, gateway, store, monitoring.NewMonitor())
	return s, surface, gateway, store
}

// placeOrder walks a session through add + finalize with a successful
// ledger response carrying the given order id.
func placeOrder(t *testing.T, s *Session, g *fakeGateway, id int) {
	t.Helper()
	s.HandleInput("add 2 Pizza")
	s.HandleInput("no")
	if g.finalizeFn == nil {
		t.Fatal("finalize was not submitted to the gateway")
	}
	g.finalizeFn(FinalizeResult{Status: StatusOK, OrderID: id})
}

func TestMenuStaysIdle(t *testing.T) {
	s, surface, _, _ := newTestSession()

	s.HandleInput("Menu")

	assert.Equal(t, StateIdle, s.state)
	assert.True(t, surface.botSaid("Pizza - $10"))
	assert.True(t, surface.botSaid("Custard - $15"))
}

func TestAddTransitionsToAwaitingMoreItems(t *testing.T) {
	s, surface, _, _ := newTestSession()

	s.HandleInput("add 2 Pizza")

	assert.Equal(t, StateAwaitingMoreItems, s.state)
	assert.Equal(t, map[string]int{"Pizza": 2}, s.order.Lines())
	assert.True(t, surface.botSaid("You have ordered: Pizza (x2)"))
	assert.True(t, surface.botSaid("anything else"))
}

func TestFollowUpTurnsAccumulate(t *testing.T) {
	s, _, _, _ := newTestSession()

	s.HandleInput("add 2 Pizza")
	s.HandleInput("3 pasta and 1 pizza")

	assert.Equal(t, StateAwaitingMoreItems, s.state)
	assert.Equal(t, map[string]int{"Pizza": 3, "Pasta": 3}, s.order.Lines())
}

func TestUnknownItemsReportedOncePerTurn(t *testing.T) {
	s, surface, _, _ := newTestSession()

	s.HandleInput("add 2 burger 1 pizza 3 sushi")

	assert.Equal(t, map[string]int{"Pizza": 1}, s.order.Lines())

	var reports int
	for _, text := range surface.botTexts() {
		if strings.Contains(text, "don't have these on our menu") {
			reports++
			assert.Contains(t, text, "burger")
			assert.Contains(t, text, "sushi")
		}
	}
	assert.Equal(t, 1, reports)
}

func TestUnparsableOrderPrompts(t *testing.T) {
	s, surface, _, _ := newTestSession()

	s.HandleInput("add 2 Pizza")
	s.HandleInput("some of everything please")

	assert.Equal(t, StateAwaitingMoreItems, s.state)
	assert.True(t, surface.botSaid(msgSpecifyItems))
}

func TestFinalizeSuccess(t *testing.T) {
	s, surface, gateway, store := newTestSession()

	s.HandleInput("add 2 Pizza")
	s.HandleInput("no")

	assert.Equal(t, 1, gateway.finalizeCalls)
	assert.Equal(t, map[string]int{"Pizza": 2}, gateway.finalizeItems)
	assert.Equal(t, 20.0, gateway.finalizeTotal)

	gateway.finalizeFn(FinalizeResult{Status: StatusOK, OrderID: 5})

	assert.Equal(t, 0, s.order.Len())
	assert.Equal(t, StateIdle, s.state)
	assert.True(t, s.orderFinalized)
	assert.Equal(t, 6, s.nextOrderNumber)
	assert.True(t, surface.botSaid("tracking number: 5"))
	assert.True(t, surface.botSaid("Your total cost is: $20."))

	saved, ok := store.Load("next_order_number")
	assert.True(t, ok)
	assert.Equal(t, "6", saved)
	_, ok = store.Load("order:5")
	assert.True(t, ok)
}

func TestFinalizeIdempotent(t *testing.T) {
	s, surface, gateway, _ := newTestSession()
	placeOrder(t, s, gateway, 5)

	s.HandleInput("done")

	assert.Equal(t, 1, gateway.finalizeCalls)
	assert.True(t, surface.botSaid(msgAlreadyFinalized))
}

func TestFinalizeTransportFailureIsRetryable(t *testing.T) {
	s, surface, gateway, _ := newTestSession()

	s.HandleInput("add 2 Pizza")
	s.HandleInput("no")
	gateway.finalizeFn(FinalizeResult{Status: StatusTransportError})

	assert.False(t, s.orderFinalized)
	assert.Equal(t, map[string]int{"Pizza": 2}, s.order.Lines())
	assert.True(t, surface.botSaid(msgFinalizeFailed))

	// state never left AwaitingMoreItems, so "no" retries the submit
	s.HandleInput("no")
	assert.Equal(t, 2, gateway.finalizeCalls)
}

func TestFinalizeServiceErrorRendersReason(t *testing.T) {
	s, surface, gateway, _ := newTestSession()

	s.HandleInput("add 1 salad")
	s.HandleInput("nothing else")
	gateway.finalizeFn(FinalizeResult{Status: StatusServiceError, Message: "ledger unavailable"})

	assert.False(t, s.orderFinalized)
	assert.True(t, surface.botSaid("Failed to finalize the order: ledger unavailable"))
}

func TestTrackBeforeFinalize(t *testing.T) {
	s, surface, _, _ := newTestSession()

	s.HandleInput("track")

	assert.Equal(t, StateIdle, s.state)
	assert.True(t, surface.botSaid(msgNeedFinalize))
}

func TestTrackFlowEndToEnd(t *testing.T) {
	s, surface, gateway, _ := newTestSession()
	placeOrder(t, s, gateway, 5)

	s.HandleInput("track")
	assert.Equal(t, StateAwaitingTrackConfirmation, s.state)

	s.HandleInput("yes")
	assert.Equal(t, StateAwaitingTrackingNumber, s.state)

	s.HandleInput("ORD-5")
	// acceptance state leaves AwaitingTrackingNumber at issue time
	assert.Equal(t, StateIdle, s.state)
	assert.Equal(t, 1, gateway.trackCalls)
	assert.Equal(t, "ORD-5", gateway.trackNumber)

	gateway.trackFn(TrackResult{Status: StatusServiceError, Message: "Order not found"})
	assert.True(t, surface.botSaid(msgTrackingNotFound))
}

func TestTrackLookupSuccessRendersOrder(t *testing.T) {
	s, surface, gateway, _ := newTestSession()
	placeOrder(t, s, gateway, 9)

	s.HandleInput("track")
	s.HandleInput("yes")
	s.HandleInput("9")

	gateway.trackFn(TrackResult{
		Status:    StatusOK,
		Items:     map[string]int{"Pizza": 2, "Pasta": 1},
		TotalCost: 28,
	})

	assert.True(t, surface.botSaid("Your order is: Pasta (x1), Pizza (x2)"))
	assert.True(t, surface.botSaid("Your total cost is: $28."))
}

func TestTrackConfirmationDeclined(t *testing.T) {
	s, surface, gateway, _ := newTestSession()
	placeOrder(t, s, gateway, 5)

	s.HandleInput("track")
	s.HandleInput("no")

	assert.Equal(t, StateIdle, s.state)
	assert.False(t, s.orderFinalized)
	assert.True(t, surface.botSaid(msgClosing))
}

func TestTrackConfirmationReprompts(t *testing.T) {
	s, surface, gateway, _ := newTestSession()
	placeOrder(t, s, gateway, 5)

	s.HandleInput("track")
	s.HandleInput("maybe")

	assert.Equal(t, StateAwaitingTrackConfirmation, s.state)
	assert.True(t, surface.botSaid(msgYesOrNo))
}

func TestStaleTrackResponseDropped(t *testing.T) {
	s, surface, gateway, _ := newTestSession()
	placeOrder(t, s, gateway, 5)

	s.HandleInput("track")
	s.HandleInput("yes")
	s.HandleInput("5")

	// conversation resets before the lookup resolves
	s.HandleInput("thanks")
	before := len(surface.botTexts())

	gateway.trackFn(TrackResult{Status: StatusOK, Items: map[string]int{"Pizza": 2}, TotalCost: 20})

	assert.Equal(t, before, len(surface.botTexts()))
}

func TestRemoveFromOrder(t *testing.T) {
	s, surface, _, _ := newTestSession()

	s.HandleInput("add 2 Pizza 1 salad")
	s.HandleInput("remove pizza")

	assert.Equal(t, map[string]int{"Salad": 1}, s.order.Lines())
	assert.True(t, surface.botSaid("You have ordered: Salad (x1)"))
	assert.Equal(t, StateAwaitingMoreItems, s.state)
}

func TestRemoveAbsentItem(t *testing.T) {
	s, surface, _, _ := newTestSession()

	// reachable at Idle even before any order exists
	s.HandleInput("remove pizza")

	assert.Equal(t, StateIdle, s.state)
	assert.True(t, surface.botSaid(msgItemNotFound))
}

func TestThanksResetsConversation(t *testing.T) {
	s, surface, gateway, _ := newTestSession()

	s.HandleInput("add 2 Pizza")
	s.HandleInput("thanks")

	// "thanks" at AwaitingMoreItems is order text, not a reset
	assert.Equal(t, StateAwaitingMoreItems, s.state)

	s.HandleInput("no")
	gateway.finalizeFn(FinalizeResult{Status: StatusOK, OrderID: 1})
	assert.True(t, s.orderFinalized)

	s.HandleInput("thanks")
	assert.True(t, surface.botSaid(msgThanks))
	assert.Equal(t, StateIdle, s.state)
	assert.Equal(t, 0, s.order.Len())
	assert.False(t, s.orderFinalized)
}

func TestUnknownInputAtIdle(t *testing.T) {
	s, surface, _, _ := newTestSession()

	s.HandleInput("sing me a song")

	assert.Equal(t, StateIdle, s.state)
	assert.True(t, surface.botSaid(msgError))
}

func TestNextOrderNumberSeededFromStore(t *testing.T) {
	surface := &fakeSurface{}
	gateway := &fakeGateway{}
	store := newFakeStore()
	store.data["next_order_number"] = "41"

	s := NewSession(menu.Default(), surface, gateway, store, nil)

	assert.Equal(t, 41, s.nextOrderNumber)
}

func TestRoundTripTotalMatchesAccumulatedOrder(t *testing.T) {
	s, _, gateway, _ := newTestSession()

	s.HandleInput("add 2 Pizza")
	s.HandleInput("1 salad 3 samosa")
	s.HandleInput("2 pizza")
	s.HandleInput("no")

	catalog := menu.Default()
	var want float64
	for item, qty := range gateway.finalizeItems {
		price, ok := catalog.PriceOf(item)
		assert.True(t, ok)
		want += price * float64(qty)
	}
	assert.Equal(t, want, gateway.finalizeTotal)
	assert.Equal(t, map[string]int{"Pizza": 4, "Salad": 1, "Samosa": 3}, gateway.finalizeItems)
}
