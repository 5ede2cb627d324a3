package dialogue

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"takeorder/internal/menu"
	"takeorder/internal/monitoring"
	"takeorder/internal/order"
)

// State is the conversational position of a session. Exactly one state
// is active at a time; transitions happen only inside HandleInput and
// the async result appliers.
type State string

const (
	StateIdle                      State = "idle"
	StateAwaitingMoreItems         State = "awaiting_more_items"
	StateAwaitingTrackConfirmation State = "awaiting_track_confirmation"
	StateAwaitingTrackingNumber    State = "awaiting_tracking_number"
)

const nextOrderNumberKey = "next_order_number"

var closingTokens = map[string]bool{
	"no":           true,
	"nope":         true,
	"nothing else": true,
	"done":         true,
}

// Session owns one conversation: the accumulating order, the dialogue
// state, and the orderFinalized flag. All mutable state lives here so a
// server can run independent sessions side by side.
//
// The epoch counter stamps async requests. A full reset advances it,
// and a tracking-lookup response carrying a stale epoch is discarded
// instead of rendered into the wrong conversation.
type Session struct {
	mu      sync.Mutex
	catalog *menu.Catalog
	surface Surface
	gateway Gateway
	store   Store
	monitor *monitoring.Monitor

	state           State
	order           *order.Ledger
	orderFinalized  bool
	nextOrderNumber int
	epoch           uint64
}

// NewSession creates an idle session with an empty order. The next
// order number is seeded from the store, defaulting to 1.
func NewSession(catalog *menu.Catalog, surface Surface, gateway Gateway, store Store, monitor *monitoring.Monitor) *Session {
	s := &Session{
		catalog:         catalog,
		surface:         surface,
		gateway:         gateway,
		store:           store,
		monitor:         monitor,
		state:           StateIdle,
		order:           order.New(),
		nextOrderNumber: 1,
	}
	if store != nil {
		if raw, ok := store.Load(nextOrderNumberKey); ok {
			if n, err := strconv.Atoi(raw); err == nil {
				s.nextOrderNumber = n
			}
		}
	}
	return s
}

// Greet renders the opening bot message
func (s *Session) Greet() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface.Render(msgGreeting, RoleBot)
}

// HandleInput processes one utterance to completion. State-specific
// handling takes precedence over the global keyword rules, which only
// apply at Idle.
func (s *Session) HandleInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)

	s.surface.Render(trimmed, RoleUser)

	switch s.state {
	case StateAwaitingTrackConfirmation:
		s.handleTrackConfirmation(lower)
	case StateAwaitingTrackingNumber:
		s.handleTrackingNumber(trimmed)
	case StateAwaitingMoreItems:
		s.handleMoreItems(trimmed, lower)
	default:
		s.handleIdle(trimmed, lower)
	}
}

func (s *Session) handleTrackConfirmation(lower string) {
	switch lower {
	case "yes":
		s.surface.Render(msgRequestTracking, RoleBot)
		s.state = StateAwaitingTrackingNumber
		s.recordTurn("track_yes")
	case "no":
		s.surface.Render(msgClosing, RoleBot)
		s.state = StateIdle
		s.orderFinalized = false
		s.recordTurn("track_no")
	default:
		s.surface.Render(msgYesOrNo, RoleBot)
		s.recordTurn("reprompt")
	}
}

// handleTrackingNumber issues the lookup and leaves the state
// immediately; the render happens whenever the response arrives. A turn
// typed before then is processed under Idle rules.
func (s *Session) handleTrackingNumber(trackingNumber string) {
	s.state = StateIdle
	epoch := s.epoch
	s.gateway.Track(trackingNumber, func(res TrackResult) {
		s.applyTrack(epoch, res)
	})
	s.recordTurn("tracking_number")
}

func (s *Session) applyTrack(epoch uint64, res TrackResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		// conversation was reset while the lookup was in flight
		return
	}

	switch res.Status {
	case StatusOK:
		names := make([]string, 0, len(res.Items))
		for name := range res.Items {
			names = append(names, name)
		}
		sort.Strings(names)
		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("%s (x%d)", name, res.Items[name]))
		}
		s.surface.Render(fmt.Sprintf("Your order is: %s", strings.Join(lines, ", ")), RoleBot)
		s.surface.Render(fmt.Sprintf("Your total cost is: %s.", formatMoney(res.TotalCost)), RoleBot)
	case StatusServiceError:
		s.surface.Render(msgTrackingNotFound, RoleBot)
	default:
		s.surface.Render(msgTrackingFailed, RoleBot)
	}
}

func (s *Session) handleMoreItems(trimmed, lower string) {
	switch {
	case closingTokens[lower]:
		s.finalize()
		s.recordTurn("finalize")
	case strings.HasPrefix(lower, "remove"):
		s.removeItem(lower)
		s.recordTurn("remove")
	default:
		s.addItems(trimmed)
		s.recordTurn("add")
	}
}

// handleIdle applies the global keyword rules in priority order, first
// match wins.
func (s *Session) handleIdle(trimmed, lower string) {
	switch {
	case strings.Contains(lower, "menu") || strings.Contains(lower, "order now"):
		s.displayMenu()
		s.recordTurn("menu")
	case strings.Contains(lower, "track"):
		if s.orderFinalized {
			s.surface.Render(msgTrackConfirmation, RoleBot)
			s.state = StateAwaitingTrackConfirmation
		} else {
			s.surface.Render(msgNeedFinalize, RoleBot)
		}
		s.recordTurn("track")
	case strings.Contains(lower, "remove"):
		s.removeItem(lower)
		s.recordTurn("remove")
	case strings.Contains(lower, "order") || strings.Contains(lower, "add"):
		s.addItems(trimmed)
		s.recordTurn("add")
	case closingTokens[lower]:
		s.finalize()
		s.recordTurn("finalize")
	case lower == "thanks" || lower == "thank you":
		s.surface.Render(msgThanks, RoleBot)
		s.reset()
		s.recordTurn("thanks")
	default:
		s.surface.Render(msgError, RoleBot)
		s.recordTurn("unknown")
	}
}

// addItems extracts quantity+item fragments, merges them into the
// active order, and moves to AwaitingMoreItems. Unrecognized fragments
// are reported together once per turn instead of interleaved with the
// merge.
func (s *Session) addItems(utterance string) {
	extracted, rejected := Extract(s.catalog, utterance)

	if extracted.Len() == 0 {
		if len(rejected) > 0 {
			s.surface.Render(notOnMenuLine(rejected), RoleBot)
			s.surface.Render(menuLine(s.catalog), RoleBot)
		} else {
			s.surface.Render(msgSpecifyItems, RoleBot)
		}
		return
	}

	extracted.Each(func(item string, qty int) {
		// qty was validated by the extractor
		_ = s.order.Add(item, qty)
	})

	if len(rejected) > 0 {
		s.surface.Render(notOnMenuLine(rejected), RoleBot)
		s.surface.Render(menuLine(s.catalog), RoleBot)
	}

	s.renderOrderSummary()
	s.surface.Render(msgAskForMore, RoleBot)
	s.state = StateAwaitingMoreItems
}

// removeItem strips the leading "remove" keyword, normalizes the rest,
// and deletes the whole line. Deletion is not a decrement.
func (s *Session) removeItem(lower string) {
	token := strings.TrimSpace(strings.TrimPrefix(lower, "remove"))
	item := NormalizeItem(token)
	if s.order.Remove(item) {
		s.renderOrderSummary()
	} else {
		s.surface.Render(msgItemNotFound, RoleBot)
	}
}

func (s *Session) renderOrderSummary() {
	s.surface.Render(fmt.Sprintf("You have ordered: %s", strings.Join(s.order.Summary(), ", ")), RoleBot)
	s.surface.Render(fmt.Sprintf("Your total cost for the selected items is: %s.", formatMoney(s.order.TotalCost(s.catalog))), RoleBot)
}

func (s *Session) displayMenu() {
	s.surface.Render(menuLine(s.catalog), RoleBot)
	s.surface.Render(msgExampleOrder, RoleBot)
}

// finalize submits the active order to the remote ledger. The guard
// makes a second finalize a no-op until the conversation is reset; a
// failed submission leaves the order intact and the flag clear so the
// user can retry.
func (s *Session) finalize() {
	if s.orderFinalized {
		s.surface.Render(msgAlreadyFinalized, RoleBot)
		return
	}

	items := s.order.Lines()
	totalCost := s.order.TotalCost(s.catalog)
	summary := strings.Join(s.order.Summary(), ", ")

	s.gateway.Finalize(items, totalCost, func(res FinalizeResult) {
		s.applyFinalize(items, totalCost, summary, res)
	})
}

// applyFinalize is applied regardless of epoch: dropping a success
// would leave an order placed on the remote ledger that the session
// does not know about.
func (s *Session) applyFinalize(items map[string]int, totalCost float64, summary string, res FinalizeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch res.Status {
	case StatusOK:
		s.surface.Render(fmt.Sprintf("%s %s", msgOrderComplete, summary), RoleBot)
		s.surface.Render(fmt.Sprintf("Your total cost is: %s.", formatMoney(totalCost)), RoleBot)
		s.surface.Render(fmt.Sprintf("%s %d.", msgTrackOrder, res.OrderID), RoleBot)

		s.order.Clear()
		s.state = StateIdle
		s.orderFinalized = true
		s.nextOrderNumber = res.OrderID + 1
		s.persistFinalized(res.OrderID, items, totalCost)
		if s.monitor != nil {
			s.monitor.RecordOrderFinalized(totalCost)
		}
	case StatusServiceError:
		s.surface.Render(fmt.Sprintf("Failed to finalize the order: %s", res.Message), RoleBot)
	default:
		s.surface.Render(msgFinalizeFailed, RoleBot)
	}
}

func (s *Session) persistFinalized(orderID int, items map[string]int, totalCost float64) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(nextOrderNumberKey, strconv.Itoa(s.nextOrderNumber)); err != nil {
		log.Printf("Failed to save next order number: %v", err)
	}
	snapshot, err := json.Marshal(map[string]interface{}{
		"items":     items,
		"totalCost": totalCost,
	})
	if err != nil {
		log.Printf("Failed to encode order snapshot: %v", err)
		return
	}
	if err := s.store.Save(fmt.Sprintf("order:%d", orderID), string(snapshot)); err != nil {
		log.Printf("Failed to save order snapshot: %v", err)
	}
}

// reset returns the conversation to its initial shape and advances the
// epoch so in-flight tracking lookups render nothing.
func (s *Session) reset() {
	s.order.Clear()
	s.state = StateIdle
	s.orderFinalized = false
	s.epoch++
}

func (s *Session) recordTurn(intent string) {
	if s.monitor != nil {
		s.monitor.RecordTurn(intent)
	}
}
