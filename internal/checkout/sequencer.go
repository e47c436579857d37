package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/dvbwitso/kire-studio/internal/cart"
	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/dvbwitso/kire-studio/internal/inventory"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrIncompleteDetails = errors.New("customer details incomplete")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrIllegalTransition = errors.New("illegal checkout transition")
)

// StockCommitter pushes stock decrements to the CMS after an order
// completes. Satisfied by cms.Client.
type StockCommitter interface {
	DecrementStock(ctx context.Context, productID string, amount int) error
}

// EventSink records domain events for asynchronous publication. Satisfied
// by outbox.Repository.
type EventSink interface {
	InsertEvent(ctx context.Context, eventType, aggregateID string, payload []byte) error
}

// sessionState carries one session's checkout progress. Its mutex is held
// for the full span of every operation so concurrent requests for the same
// session serialize instead of racing on step checks.
type sessionState struct {
	mu       sync.Mutex
	Step     Step
	Customer domain.CustomerInfo
	Payment  domain.PaymentMethod
}

// Sequencer drives the linear checkout flow
// cart -> details -> payment -> confirmation for each storefront session.
// Forward transitions are gated on input validity; completion is the only
// point with external effects.
type Sequencer struct {
	carts     *cart.Service
	ledger    *inventory.Ledger
	pricer    cart.Pricer
	committer StockCommitter
	events    EventSink

	mu     sync.Mutex // guards the states map only
	states map[string]*sessionState
}

func NewSequencer(carts *cart.Service, ledger *inventory.Ledger, pricer cart.Pricer, committer StockCommitter, events EventSink) *Sequencer {
	return &Sequencer{
		carts:     carts,
		ledger:    ledger,
		pricer:    pricer,
		committer: committer,
		events:    events,
		states:    make(map[string]*sessionState),
	}
}

func (s *Sequencer) state(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, exists := s.states[sessionID]
	if !exists {
		st = &sessionState{Step: StepCart}
		s.states[sessionID] = st
	}
	return st
}

// State reports the session's current step and collected inputs.
func (s *Sequencer) State(sessionID string) (Step, domain.CustomerInfo, domain.PaymentMethod) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.Step, st.Customer, st.Payment
}

// SubmitCart moves from cart review to the details step. Requires a
// non-empty cart.
func (s *Sequencer) SubmitCart(ctx context.Context, sessionID string) error {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.Step != StepCart && st.Step != StepConfirmation {
		return ErrIllegalTransition
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if c.IsEmpty() {
		return ErrEmptyCart
	}

	st.Step = StepDetails
	return nil
}

// SubmitDetails records the customer's contact fields and moves to the
// payment step. All five fields must be non-empty strings; no format
// validation is applied beyond presence.
func (s *Sequencer) SubmitDetails(_ context.Context, sessionID string, info domain.CustomerInfo) error {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.Step != StepDetails {
		return ErrIllegalTransition
	}
	if !info.Complete() {
		return ErrIncompleteDetails
	}

	st.Customer = info
	st.Step = StepPayment
	return nil
}

// SelectPayment records the chosen payment method on the payment step.
func (s *Sequencer) SelectPayment(_ context.Context, sessionID string, method domain.PaymentMethod) error {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.Step != StepPayment {
		return ErrIllegalTransition
	}
	if !method.Valid() {
		return ErrInvalidPayment
	}

	st.Payment = method
	return nil
}

// Back steps one step backwards. The flow never skips backwards more than
// one step at a time.
func (s *Sequencer) Back(sessionID string) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Step = st.Step.Prev()
}

// Complete finalizes the order: it snapshots the cart, decrements ledger
// stock per line (flooring at zero), pushes CMS stock decrements
// fire-and-forget, records an order.completed event and clears cart and
// checkout state. Calling it again with an empty cart is a no-op so a
// duplicate confirmation click cannot decrement stock twice.
func (s *Sequencer) Complete(ctx context.Context, sessionID string) (*domain.Order, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		// Nothing to decrement; duplicate completions land here.
		return nil, nil
	}

	if st.Step != StepPayment || !st.Payment.Valid() {
		return nil, ErrIllegalTransition
	}

	lines := make([]domain.OrderLine, 0, len(c.Lines))
	var total float64
	var currency string
	for id, quantity := range c.Lines {
		item, err := s.pricer.Product(ctx, id)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.OrderLine{
			ProductID:   id,
			ProductName: item.Name,
			Quantity:    quantity,
			UnitPrice:   item.Price.Amount,
		})
		total += float64(quantity) * item.Price.Amount
		currency = item.Price.Currency
	}

	order := &domain.Order{
		ID:            uuid.New().String(),
		SessionID:     sessionID,
		Lines:         lines,
		TotalAmount:   domain.RoundTotal(total),
		Currency:      currency,
		Customer:      st.Customer,
		PaymentMethod: st.Payment,
		CompletedAt:   time.Now(),
	}

	for _, line := range lines {
		if err := s.ledger.Decrement(line.ProductID, line.Quantity); err != nil {
			log.Printf("ledger decrement for %s failed: %v", line.ProductID, err)
		}
		go func(productID string, quantity int) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.committer.DecrementStock(ctx, productID, quantity); err != nil {
				log.Printf("cms stock decrement for %s failed: %v", productID, err)
			}
		}(line.ProductID, line.Quantity)
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}
	if err := s.events.InsertEvent(ctx, "order.completed", order.ID, payload); err != nil {
		// The order still completes; the event is lost, not the sale.
		log.Printf("outbox insert for order %s failed: %v", order.ID, err)
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	st.Customer = domain.CustomerInfo{}
	st.Payment = ""
	st.Step = StepConfirmation
	return order, nil
}
